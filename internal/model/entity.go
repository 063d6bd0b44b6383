package model

import "time"

const (
	RoleDisciple = "disciple"
	RolePastor   = "pastor"
)

const (
	KindDevotional = "devotional"
	KindChapter    = "chapter"
)

type User struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;type:varchar(50)" json:"username"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Role      string    `gorm:"default:disciple;type:varchar(20)" json:"role"`
	PastorID  int       `json:"pastor_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ContentUnit is one piece of assignable daily content: the day's devotional
// (Chapter = 0) or one reading chapter. The composite unique index gives at
// most one devotional per date and one row per (date, chapter) for readings.
type ContentUnit struct {
	ID           int    `gorm:"primaryKey" json:"id"`
	Kind         string `gorm:"uniqueIndex:uk_date_kind_chapter;type:varchar(20)" json:"kind"`
	AssignedDate string `gorm:"uniqueIndex:uk_date_kind_chapter;type:date" json:"assigned_date"`
	Chapter      int    `gorm:"uniqueIndex:uk_date_kind_chapter" json:"chapter,omitempty"`
	Book         string `gorm:"type:varchar(50)" json:"book,omitempty"`
	Title        string `json:"title,omitempty"`
	Reference    string `json:"reference,omitempty"`
	Body         string `gorm:"type:text" json:"body,omitempty"`
}

// CompletionRecord is evidence a user finished a content unit. The unique
// (user_id, content_unit_id) index is what makes completion an atomic upsert:
// the store, not the client, rejects a second row for the same key.
type CompletionRecord struct {
	ID             int       `gorm:"primaryKey" json:"id"`
	UserID         int       `gorm:"uniqueIndex:uk_user_unit" json:"user_id"`
	ContentUnitID  int       `gorm:"uniqueIndex:uk_user_unit" json:"content_unit_id"`
	CompletedAt    time.Time `json:"completed_at"`
	ElapsedSeconds int       `json:"elapsed_seconds,omitempty"`
	Reflection     string    `gorm:"type:text" json:"reflection,omitempty"`
	Application    string    `gorm:"type:text" json:"application,omitempty"`
}

type Message struct {
	ID         int        `gorm:"primaryKey" json:"id"`
	FromUserID int        `gorm:"index" json:"from_user_id"`
	ToUserID   int        `gorm:"index" json:"to_user_id"`
	Body       string     `gorm:"type:text" json:"body"`
	CreatedAt  time.Time  `json:"created_at"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
}

type UserBadge struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"uniqueIndex:uk_user_badge" json:"user_id"`
	BadgeCode string    `gorm:"uniqueIndex:uk_user_badge;type:varchar(50)" json:"badge_code"`
	AwardedAt time.Time `json:"awarded_at"`
}

type DeviceToken struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"index" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;type:varchar(255)" json:"token"`
	Platform  string    `gorm:"type:varchar(20)" json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string             { return "users" }
func (ContentUnit) TableName() string      { return "content_units" }
func (CompletionRecord) TableName() string { return "completion_records" }
func (Message) TableName() string          { return "messages" }
func (UserBadge) TableName() string        { return "user_badges" }
func (DeviceToken) TableName() string      { return "device_tokens" }

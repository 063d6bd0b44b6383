package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"daily-bread/internal/config"
	"daily-bread/internal/logger"
	"daily-bread/internal/model"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// plan is the YAML layout for seeding content units:
//
//	devotionals:
//	  - date: 2026-01-01
//	    title: ...
//	    reference: jo 3:16
//	    body: ...
//	readings:
//	  - date: 2026-01-01
//	    book: gn
//	    chapters: [1, 2]
type plan struct {
	Devotionals []struct {
		Date      string `yaml:"date"`
		Title     string `yaml:"title"`
		Reference string `yaml:"reference"`
		Body      string `yaml:"body"`
	} `yaml:"devotionals"`
	Readings []struct {
		Date     string `yaml:"date"`
		Book     string `yaml:"book"`
		Chapters []int  `yaml:"chapters"`
	} `yaml:"readings"`
}

func main() {
	configFile := flag.String("config", "", "config file")
	planFile := flag.String("plan", "etc/plan.yaml", "content plan yaml")
	flag.Parse()

	logger.Init(config.LogConfig{Level: "info", Console: true})

	cfg := config.Load(*configFile)
	db, err := cfg.OpenGormDB()
	if err != nil {
		log.Fatal("db connect failed:", err)
	}
	if err := db.AutoMigrate(&model.ContentUnit{}); err != nil {
		log.Fatal("migrate failed:", err)
	}

	data, err := os.ReadFile(*planFile)
	if err != nil {
		log.Fatal("read plan:", err)
	}
	var p plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		log.Fatal("parse plan:", err)
	}

	inserted, skipped := 0, 0
	for _, d := range p.Devotionals {
		u := model.ContentUnit{
			Kind:         model.KindDevotional,
			AssignedDate: d.Date,
			Title:        d.Title,
			Reference:    d.Reference,
			Body:         d.Body,
		}
		n, err := insertUnit(db, &u)
		if err != nil {
			log.Fatal(fmt.Errorf("devotional %s: %w", d.Date, err))
		}
		inserted += n
		skipped += 1 - n
	}
	for _, r := range p.Readings {
		for _, ch := range r.Chapters {
			u := model.ContentUnit{
				Kind:         model.KindChapter,
				AssignedDate: r.Date,
				Book:         r.Book,
				Chapter:      ch,
			}
			n, err := insertUnit(db, &u)
			if err != nil {
				log.Fatal(fmt.Errorf("reading %s %s %d: %w", r.Date, r.Book, ch, err))
			}
			inserted += n
			skipped += 1 - n
		}
	}

	logger.Info("seed done", "inserted", inserted, "skipped", skipped)
}

// insertUnit is duplicate-tolerant: re-running the seeder skips rows already
// covered by the (date, kind, chapter) unique index.
func insertUnit(db *gorm.DB, u *model.ContentUnit) (int, error) {
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(u)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

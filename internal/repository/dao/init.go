package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Event{},
		&Participant{},
		&Team{},
		&SpecialReward{},
		&FileRequirement{},
		&GradingCriterion{},
		&Grade{},
		&GradeSheet{},
	)
}

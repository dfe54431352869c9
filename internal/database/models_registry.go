package database

import "caerus/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.FounderProfile{},
		&models.InvestorProfile{},
		&models.TalentProfile{},
		&models.Startup{},
		&models.Pitch{},
		&models.PitchView{},
		&models.TalentPitch{},
		&models.TalentPitchView{},
		&models.QAThread{},
		&models.QAMessage{},
		&models.TalentQAThread{},
		&models.TalentQAMessage{},
		&models.Subscription{},
		&models.PitchUnlock{},
		&models.QuestionTemplate{},
		&models.SupportTicket{},
		&models.SupportMessage{},
	}
}

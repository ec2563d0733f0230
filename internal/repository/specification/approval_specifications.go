package specification

import "gorm.io/gorm"

type ByApprovalStatus struct {
	Status string
}

func (s ByApprovalStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

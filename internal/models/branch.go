// internal/models/branch.go
package models

type Branch struct {
	BaseModel
	Name    string `json:"name" gorm:"size:150;not null"`
	Code    string `json:"code" gorm:"uniqueIndex;size:20;not null"`
	Address JSONB  `json:"address" gorm:"type:jsonb"`
	Contact JSONB  `json:"contact" gorm:"type:jsonb"`
	Active  bool   `json:"active" gorm:"not null"`
}

// BranchRef is the compact form embedded in other payloads.
type BranchRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

func (b *Branch) Ref() *BranchRef {
	if b == nil {
		return nil
	}
	return &BranchRef{ID: b.ID.String(), Name: b.Name, Code: b.Code}
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Типы частичного обновления (merge-patch): изменяются только явно
// заданные поля, nil-указатели оставляют значение нетронутым.
// Набор обновляемых полей перечислен явно — произвольные имена полей
// не принимаются.

// AgentPatch представляет частичное обновление агента
type AgentPatch struct {
	LastName             *string `json:"last_name,omitempty"`
	FirstName            *string `json:"first_name,omitempty"`
	MiddleName           *string `json:"middle_name,omitempty"`
	LegalAddress         *string `json:"legal_address,omitempty"`
	ActualAddress        *string `json:"actual_address,omitempty"`
	INN                  *string `json:"inn,omitempty"`
	OGRNIP               *string `json:"ogrnip,omitempty"`
	AccountNumber        *string `json:"account_number,omitempty"`
	CorrespondentAccount *string `json:"correspondent_account,omitempty"`
	BIC                  *string `json:"bic,omitempty"`
}

// IsEmpty сообщает, задано ли хотя бы одно поле
func (p AgentPatch) IsEmpty() bool {
	return p.LastName == nil && p.FirstName == nil && p.MiddleName == nil &&
		p.LegalAddress == nil && p.ActualAddress == nil && p.INN == nil &&
		p.OGRNIP == nil && p.AccountNumber == nil && p.CorrespondentAccount == nil &&
		p.BIC == nil
}

// ClientPatch представляет частичное обновление клиента
type ClientPatch struct {
	LastName     *string    `json:"last_name,omitempty"`
	FirstName    *string    `json:"first_name,omitempty"`
	MiddleName   *string    `json:"middle_name,omitempty"`
	StatusCode   *string    `json:"status_code,omitempty"`
	CurrentStage *string    `json:"current_stage,omitempty"`
	AgentID      *uuid.UUID `json:"agent_id,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// IsEmpty сообщает, задано ли хотя бы одно поле
func (p ClientPatch) IsEmpty() bool {
	return p.LastName == nil && p.FirstName == nil && p.MiddleName == nil &&
		p.StatusCode == nil && p.CurrentStage == nil && p.AgentID == nil &&
		p.Deadline == nil && p.Notes == nil
}

// PassportPatch представляет частичное обновление паспорта
type PassportPatch struct {
	FullName            *string    `json:"full_name,omitempty"`
	BirthDate           *time.Time `json:"birth_date,omitempty"`
	BirthPlace          *string    `json:"birth_place,omitempty"`
	SeriesNumber        *string    `json:"series_number,omitempty"`
	DepartmentCode      *string    `json:"department_code,omitempty"`
	IssuedBy            *string    `json:"issued_by,omitempty"`
	IssueDate           *time.Time `json:"issue_date,omitempty"`
	ExpiryDate          *time.Time `json:"expiry_date,omitempty"`
	RegistrationAddress *string    `json:"registration_address,omitempty"`
}

// SnilsPatch представляет частичное обновление записи СНИЛС
type SnilsPatch struct {
	Number     *string    `json:"number,omitempty"`
	IssuedDate *time.Time `json:"issued_date,omitempty"`
}

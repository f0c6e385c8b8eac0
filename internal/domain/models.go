package domain

import (
	"time"

	"github.com/google/uuid"
)

// Agent представляет агента — исполнителя, за которым закреплены клиенты.
// Внутренний идентификатор непрозрачный (UUID), внешний — человекочитаемый
// порядковый номер, выдаваемый последовательностью и никогда не переиспользуемый.
type Agent struct {
	AgentID              uuid.UUID `json:"agent_id"`
	ExternalID           int64     `json:"external_id"`
	LastName             string    `json:"last_name"`
	FirstName            string    `json:"first_name"`
	MiddleName           string    `json:"middle_name,omitempty"`
	LegalAddress         string    `json:"legal_address"`
	ActualAddress        string    `json:"actual_address"`
	INN                  string    `json:"inn"`
	OGRNIP               string    `json:"ogrnip"`
	AccountNumber        string    `json:"account_number"`
	CorrespondentAccount string    `json:"correspondent_account"`
	BIC                  string    `json:"bic"`
}

// Client представляет карточку клиента.
// Удаление клиента каскадно удаляет его телефоны, паспорта и записи СНИЛС.
// UpdatedAt обновляется при каждой мутации.
type Client struct {
	ClientID     uuid.UUID  `json:"client_id"`
	ExternalID   int64      `json:"external_id"`
	LastName     string     `json:"last_name"`
	FirstName    string     `json:"first_name"`
	MiddleName   string     `json:"middle_name,omitempty"`
	StatusCode   string     `json:"status_code"`
	CurrentStage string     `json:"current_stage"`
	AgentID      uuid.UUID  `json:"agent_id"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Notes        string     `json:"notes,omitempty"`
}

// Phone представляет телефон клиента
type Phone struct {
	PhoneID   int64     `json:"phone_id"`
	ClientID  uuid.UUID `json:"client_id"`
	Number    string    `json:"number"`
	CreatedAt time.Time `json:"created_at"`
}

// Passport представляет паспорт клиента.
// Version увеличивается при каждом обновлении записи.
type Passport struct {
	PassportID          uuid.UUID  `json:"passport_id"`
	ClientID            uuid.UUID  `json:"client_id"`
	FullName            string     `json:"full_name"`
	BirthDate           *time.Time `json:"birth_date,omitempty"`
	BirthPlace          string     `json:"birth_place"`
	SeriesNumber        string     `json:"series_number"`
	DepartmentCode      string     `json:"department_code,omitempty"`
	IssuedBy            string     `json:"issued_by"`
	IssueDate           time.Time  `json:"issue_date"`
	ExpiryDate          *time.Time `json:"expiry_date,omitempty"`
	RegistrationAddress string     `json:"registration_address"`
	Version             int        `json:"version"`
	CreatedAt           time.Time  `json:"created_at"`
}

// Snils представляет запись СНИЛС клиента
type Snils struct {
	SnilsID    uuid.UUID  `json:"snils_id"`
	ClientID   uuid.UUID  `json:"client_id"`
	Number     string     `json:"number"`
	IssuedDate *time.Time `json:"issued_date,omitempty"`
	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Status представляет запись справочника статусов работы
type Status struct {
	StatusCode  string `json:"status_code"`
	Description string `json:"description"`
}

// Stage представляет запись справочника этапов работы
type Stage struct {
	StageCode   string `json:"stage_code"`
	Description string `json:"description"`
}

// AgentSummary представляет краткую информацию об агенте для вложения в досье
type AgentSummary struct {
	AgentID    uuid.UUID `json:"agent_id"`
	ExternalID int64     `json:"external_id"`
	LastName   string    `json:"last_name"`
	FirstName  string    `json:"first_name"`
	MiddleName string    `json:"middle_name,omitempty"`
}

// StatusSummary представляет краткую информацию о статусе для вложения в досье
type StatusSummary struct {
	StatusCode  string `json:"status_code"`
	Description string `json:"description"`
}

// StageSummary представляет краткую информацию об этапе для вложения в досье
type StageSummary struct {
	StageCode   string `json:"stage_code"`
	Description string `json:"description"`
}

// ClientDossier представляет собранное досье клиента: собственные поля
// плюс вложенные сущности. Списки всегда присутствуют (пустые, но не nil);
// сводки по агенту/статусу/этапу опускаются, если запись справочника не найдена.
type ClientDossier struct {
	ClientID     uuid.UUID  `json:"client_id"`
	ExternalID   int64      `json:"external_id"`
	LastName     string     `json:"last_name"`
	FirstName    string     `json:"first_name"`
	MiddleName   string     `json:"middle_name,omitempty"`
	StatusCode   string     `json:"status_code"`
	CurrentStage string     `json:"current_stage"`
	AgentID      uuid.UUID  `json:"agent_id"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Notes        string     `json:"notes,omitempty"`

	Agent     *AgentSummary  `json:"agent,omitempty"`
	Status    *StatusSummary `json:"status,omitempty"`
	Stage     *StageSummary  `json:"stage,omitempty"`
	Phones    []Phone        `json:"phones"`
	Passports []Passport     `json:"passports"`
	Snils     []Snils        `json:"snils"`
}

// ClientBundle представляет клиента с жадно загруженными связями.
// Используется слоем агрегации, чтобы не выполнять отдельные запросы
// по каждой коллекции при выборке списков.
type ClientBundle struct {
	Client    Client
	Agent     *Agent
	Phones    []Phone
	Passports []Passport
	Snils     []Snils
}

// ClientFilter представляет фильтры и пагинацию списка клиентов.
// Фильтры объединяются по И; пустые значения игнорируются.
type ClientFilter struct {
	Query        string
	StatusCode   string
	AgentID      *uuid.UUID
	CurrentStage string
	Skip         int
	Limit        int
}

// AgentFilter представляет фильтры и пагинацию списка агентов
type AgentFilter struct {
	Query string
	Skip  int
	Limit int
}

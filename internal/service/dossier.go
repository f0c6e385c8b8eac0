package service

import (
	"context"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/repository"
	pkgerrors "CaseFilePlatform/pkg/errors"
)

// lookupIndex снимок справочников для сборки досье.
// Справочники малы, поэтому для страницы клиентов выгоднее прочитать
// их целиком один раз, чем запрашивать коды по отдельности.
type lookupIndex struct {
	statuses map[string]domain.Status
	stages   map[string]domain.Stage
}

func loadLookupIndex(ctx context.Context, lookups repository.LookupRepository) (*lookupIndex, error) {
	statuses, err := lookups.ListStatuses(ctx)
	if err != nil {
		return nil, err
	}
	stages, err := lookups.ListStages(ctx)
	if err != nil {
		return nil, err
	}

	index := &lookupIndex{
		statuses: make(map[string]domain.Status, len(statuses)),
		stages:   make(map[string]domain.Stage, len(stages)),
	}
	for _, status := range statuses {
		index.statuses[status.StatusCode] = status
	}
	for _, stage := range stages {
		index.stages[stage.StageCode] = stage
	}
	return index, nil
}

// assembleDossier собирает каноническое представление клиента из пачки
// связей и снимка справочников. Отсутствующая запись справочника или
// агента не считается ошибкой: соответствующая сводка опускается.
func assembleDossier(bundle *domain.ClientBundle, lookups *lookupIndex) *domain.ClientDossier {
	client := bundle.Client
	dossier := &domain.ClientDossier{
		ClientID:     client.ClientID,
		ExternalID:   client.ExternalID,
		LastName:     client.LastName,
		FirstName:    client.FirstName,
		MiddleName:   client.MiddleName,
		StatusCode:   client.StatusCode,
		CurrentStage: client.CurrentStage,
		AgentID:      client.AgentID,
		Deadline:     client.Deadline,
		CreatedAt:    client.CreatedAt,
		UpdatedAt:    client.UpdatedAt,
		Notes:        client.Notes,
		Phones:       bundle.Phones,
		Passports:    bundle.Passports,
		Snils:        bundle.Snils,
	}
	if dossier.Phones == nil {
		dossier.Phones = []domain.Phone{}
	}
	if dossier.Passports == nil {
		dossier.Passports = []domain.Passport{}
	}
	if dossier.Snils == nil {
		dossier.Snils = []domain.Snils{}
	}

	if bundle.Agent != nil {
		dossier.Agent = &domain.AgentSummary{
			AgentID:    bundle.Agent.AgentID,
			ExternalID: bundle.Agent.ExternalID,
			LastName:   bundle.Agent.LastName,
			FirstName:  bundle.Agent.FirstName,
			MiddleName: bundle.Agent.MiddleName,
		}
	}
	if status, ok := lookups.statuses[client.StatusCode]; ok {
		dossier.Status = &domain.StatusSummary{
			StatusCode:  status.StatusCode,
			Description: status.Description,
		}
	}
	if stage, ok := lookups.stages[client.CurrentStage]; ok {
		dossier.Stage = &domain.StageSummary{
			StageCode:   stage.StageCode,
			Description: stage.Description,
		}
	}

	return dossier
}

// isNotFound сообщает, является ли ошибка отсутствием записи
func isNotFound(err error) bool {
	return pkgerrors.CodeOf(err) == pkgerrors.ErrNotFound
}

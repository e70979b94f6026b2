package leads

import (
	"context"
	"errors"
	"sort"

	"leadgen-backend/internal/companies"
	"leadgen-backend/internal/derive"
	"leadgen-backend/internal/ingest"
	"leadgen-backend/internal/shared/telemetry"
)

var ErrRunNotFound = errors.New("run not found")

// Service reads a run's persisted companies and serves them as leads
// scored against the operating profile.
type Service struct {
	Runs      ingest.RunRepo
	Companies companies.Repo
	Profile   derive.Profile
}

func NewService(runs ingest.RunRepo, repo companies.Repo, profile derive.Profile) *Service {
	return &Service{Runs: runs, Companies: repo, Profile: profile}
}

// ListForRun returns the leads attached to a run, highest score first.
// presence filters on derived social presence; empty means no filter.
// Records that fail to load degrade the listing instead of failing it.
func (s *Service) ListForRun(ctx context.Context, runID int64, presence string) ([]Lead, error) {
	run, err := s.Runs.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, ingest.ErrNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}

	rawIDs, err := s.Runs.GetRawIDsForRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	out := make([]Lead, 0, len(rawIDs))
	for _, rawID := range rawIDs {
		raw, err := s.Companies.GetRawByID(ctx, rawID)
		if err != nil {
			telemetry.Warn("leads.load_raw_failed", map[string]any{
				"run_id": run.ID,
				"raw_id": rawID,
				"error":  err.Error(),
			})
			continue
		}

		classification, err := s.Companies.GetClassification(ctx, rawID)
		if err != nil {
			// Derivation may have been skipped for this record; classify
			// on the fly so the listing stays complete.
			if !errors.Is(err, companies.ErrNotFound) {
				telemetry.Warn("leads.load_classification_failed", map[string]any{
					"run_id": run.ID,
					"raw_id": rawID,
					"error":  err.Error(),
				})
			}
			classification = derive.Classify(raw)
		}

		lead := Map(run.ID, rawID, raw, classification, s.Profile)
		if presence != "" && lead.SocialPresence != presence {
			continue
		}
		out = append(out, lead)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].ID < out[j].ID
		}
		return out[i].Score > out[j].Score
	})
	return out, nil
}

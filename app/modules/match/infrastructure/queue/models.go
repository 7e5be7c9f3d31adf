package matchqueue

import matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"

// PersistRallyBatchJob carries a batch the persister rejected on flush.
type PersistRallyBatchJob struct {
	MatchID string                    `json:"match_id"`
	Records []matchdomain.RallyRecord `json:"records"`
}

// Kind returns the job type identifier for River
func (PersistRallyBatchJob) Kind() string { return "persist_rally_batch" }

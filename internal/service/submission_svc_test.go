package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/apperr"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
)

// fakeReportStore mirrors the repository's conditional updates in memory: a
// transition returns false when the row is not in the expected state, exactly
// like a zero-rows-affected UPDATE. The loseNext flags make the next
// conditional update fail without mutating, as if a rival transition landed
// between the service's pre-read and its write.
type fakeReportStore struct {
	reports               map[string]*model.TrashReport
	loseNextMarkCollected bool
	loseNextApprove       bool
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: make(map[string]*model.TrashReport)}
}

func (f *fakeReportStore) put(r *model.TrashReport) {
	cp := *r
	f.reports[r.ReportID] = &cp
}

func (f *fakeReportStore) Insert(_ context.Context, report *model.TrashReport) error {
	f.put(report)
	return nil
}

func (f *fakeReportStore) FindByID(_ context.Context, reportID string) (*model.TrashReport, error) {
	r, ok := f.reports[reportID]
	if !ok {
		return nil, apperr.NotFoundf("report %s not found", reportID)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReportStore) List(_ context.Context, status string, _ int) ([]model.TrashReport, error) {
	var out []model.TrashReport
	for _, r := range f.reports {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReportStore) MarkCollected(_ context.Context, reportID, collectorID, proofImageURL string, aiVerified bool, provisionalPoints int) (bool, error) {
	if f.loseNextMarkCollected {
		f.loseNextMarkCollected = false
		return false, nil
	}
	r, ok := f.reports[reportID]
	if !ok || r.Status != model.StatusReported {
		return false, nil
	}
	now := time.Now().UTC()
	r.Status = model.StatusCollected
	r.CollectorID = &collectorID
	r.CollectionImageURL = &proofImageURL
	r.AIVerified = aiVerified
	r.AdminVerified = false
	r.PointsAwarded = provisionalPoints
	r.PointsGiven = false
	r.CollectedAt = &now
	return true, nil
}

func (f *fakeReportStore) ApproveCollection(_ context.Context, reportID string) (bool, error) {
	if f.loseNextApprove {
		f.loseNextApprove = false
		return false, nil
	}
	r, ok := f.reports[reportID]
	if !ok || r.Status != model.StatusCollected || r.PointsGiven {
		return false, nil
	}
	r.AdminVerified = true
	r.PointsGiven = true
	return true, nil
}

func (f *fakeReportStore) RejectCollection(_ context.Context, reportID string) (bool, error) {
	r, ok := f.reports[reportID]
	if !ok || r.Status != model.StatusCollected || r.PointsGiven {
		return false, nil
	}
	r.Status = model.StatusReported
	r.CollectorID = nil
	r.CollectionImageURL = nil
	r.AIVerified = false
	r.AdminVerified = false
	r.PointsAwarded = 0
	r.PointsGiven = false
	r.CollectedAt = nil
	return true, nil
}

func (f *fakeReportStore) UpdateFields(_ context.Context, _ string, _ model.UpdateReportRequest) error {
	return nil
}

func (f *fakeReportStore) Delete(_ context.Context, reportID string) error {
	if _, ok := f.reports[reportID]; !ok {
		return apperr.NotFoundf("report %s not found", reportID)
	}
	delete(f.reports, reportID)
	return nil
}

func (f *fakeReportStore) WeeklyStats(_ context.Context) (*model.WeeklyStatsResponse, error) {
	return &model.WeeklyStatsResponse{}, nil
}

type fakeBalanceStore struct {
	deltas map[string][]int
	medals map[string]map[string][]string
}

func newFakeBalanceStore() *fakeBalanceStore {
	return &fakeBalanceStore{
		deltas: make(map[string][]int),
		medals: make(map[string]map[string][]string),
	}
}

func (f *fakeBalanceStore) ApplyDelta(_ context.Context, userID string, amount int) (model.Balances, bool, error) {
	f.deltas[userID] = append(f.deltas[userID], amount)
	total := 0
	for _, d := range f.deltas[userID] {
		total += d
		if total < 0 {
			total = 0
		}
	}
	return model.Balances{Total: total, Monthly: total, Weekly: total}, false, nil
}

func (f *fakeBalanceStore) GetMonthMedals(_ context.Context, userID, monthKey string) ([]string, error) {
	return f.medals[userID][monthKey], nil
}

func (f *fakeBalanceStore) SetMonthMedals(_ context.Context, userID, monthKey string, tiers []string) error {
	if f.medals[userID] == nil {
		f.medals[userID] = make(map[string][]string)
	}
	f.medals[userID][monthKey] = tiers
	return nil
}

type fakeGroupStore struct {
	deltas map[string][]int
}

func newFakeGroupStore() *fakeGroupStore {
	return &fakeGroupStore{deltas: make(map[string][]int)}
}

func (f *fakeGroupStore) ApplyMemberDelta(_ context.Context, userID string, amount int) error {
	f.deltas[userID] = append(f.deltas[userID], amount)
	return nil
}

func newTestSubmissionService(store ReportStore) (*SubmissionService, *fakeBalanceStore, *fakeGroupStore) {
	balances := newFakeBalanceStore()
	groups := newFakeGroupStore()
	ledger := NewLedgerService(balances, groups, NewMedalService(), nil)
	svc := NewSubmissionService(store, NewPointsService(), ledger, nil, nil)
	return svc, balances, groups
}

func collectedReport(reportID, collectorID string, points int) *model.TrashReport {
	now := time.Now().UTC()
	return &model.TrashReport{
		ReportID:      reportID,
		Location:      model.Location{Lat: 46.8, Lng: -71.2},
		ImageURL:      "https://img.example/before.jpg",
		Status:        model.StatusCollected,
		ReporterID:    "user_reporter",
		CollectorID:   &collectorID,
		PointsAwarded: points,
		CreatedAt:     now,
		CollectedAt:   &now,
	}
}

func TestReportRequiresLocation(t *testing.T) {
	svc, balances, _ := newTestSubmissionService(newFakeReportStore())

	_, err := svc.Report(context.Background(), "user_a", model.ReportRequest{
		ImageURL: "https://img.example/trash.jpg",
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("Report without location: err = %v, want ValidationError", err)
	}
	if len(balances.deltas) != 0 {
		t.Error("rejected report must not credit points")
	}
}

func TestReportAtNullIslandIsValid(t *testing.T) {
	svc, balances, _ := newTestSubmissionService(newFakeReportStore())

	report, err := svc.Report(context.Background(), "user_a", model.ReportRequest{
		Location: &model.Location{Lat: 0, Lng: 0},
		ImageURL: "https://img.example/trash.jpg",
	})
	if err != nil {
		t.Fatalf("Report at (0,0): %v", err)
	}
	if report.Status != model.StatusReported {
		t.Errorf("status = %s, want %s", report.Status, model.StatusReported)
	}
	if got := balances.deltas["user_a"]; len(got) != 1 || got[0] != ReportPoints {
		t.Errorf("reporter deltas = %v, want [%d]", got, ReportPoints)
	}
}

func TestCollectSecondAttemptInvalidState(t *testing.T) {
	store := newFakeReportStore()
	svc, balances, _ := newTestSubmissionService(store)
	store.put(&model.TrashReport{
		ReportID:   "trash_aaa111",
		Location:   model.Location{Lat: 46.8, Lng: -71.2},
		ImageURL:   "https://img.example/before.jpg",
		Status:     model.StatusReported,
		ReporterID: "user_reporter",
		CreatedAt:  time.Now().UTC(),
	})

	resp, err := svc.Collect(context.Background(), "user_b", "trash_aaa111", model.CollectRequest{
		ProofImageURL: "https://img.example/after.jpg",
	})
	if err != nil {
		t.Fatalf("first collect: %v", err)
	}
	if resp.PointsPending != CollectionPointsManual {
		t.Errorf("points pending = %d, want manual tier %d", resp.PointsPending, CollectionPointsManual)
	}
	if resp.Report.Status != model.StatusCollected {
		t.Errorf("status = %s, want %s", resp.Report.Status, model.StatusCollected)
	}

	_, err = svc.Collect(context.Background(), "user_c", "trash_aaa111", model.CollectRequest{
		ProofImageURL: "https://img.example/late.jpg",
	})
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Errorf("second collect: err = %v, want InvalidStateError", err)
	}

	if len(balances.deltas) != 0 {
		t.Errorf("collection must not touch the ledger before approval, got %v", balances.deltas)
	}
}

func TestCollectVerifiedVerdictSelectsHigherTier(t *testing.T) {
	store := newFakeReportStore()
	svc, _, _ := newTestSubmissionService(store)
	store.put(&model.TrashReport{
		ReportID:   "trash_bbb222",
		Status:     model.StatusReported,
		ReporterID: "user_reporter",
		CreatedAt:  time.Now().UTC(),
	})

	verified := true
	resp, err := svc.Collect(context.Background(), "user_b", "trash_bbb222", model.CollectRequest{
		ProofImageURL: "https://img.example/after.jpg",
		AIVerified:    &verified,
	})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if resp.PointsPending != CollectionPointsVerified {
		t.Errorf("points pending = %d, want verified tier %d", resp.PointsPending, CollectionPointsVerified)
	}
}

func TestCollectRaceLoserGetsConflict(t *testing.T) {
	store := newFakeReportStore()
	svc, _, _ := newTestSubmissionService(store)
	store.put(&model.TrashReport{
		ReportID:   "trash_ccc333",
		Status:     model.StatusReported,
		ReporterID: "user_reporter",
		CreatedAt:  time.Now().UTC(),
	})
	store.loseNextMarkCollected = true

	_, err := svc.Collect(context.Background(), "user_b", "trash_ccc333", model.CollectRequest{
		ProofImageURL: "https://img.example/after.jpg",
	})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("race loser: err = %v, want ConflictError", err)
	}
}

func TestApproveCollectionSettlesExactlyOnce(t *testing.T) {
	store := newFakeReportStore()
	svc, balances, groups := newTestSubmissionService(store)
	store.put(collectedReport("trash_ddd444", "user_b", CollectionPointsVerified))

	report, settled, err := svc.ApproveCollection(context.Background(), "trash_ddd444")
	if err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if !settled {
		t.Error("first approve must report settled")
	}
	if !report.PointsGiven || !report.AdminVerified {
		t.Errorf("report after approve: pointsGiven=%t adminVerified=%t, want both true",
			report.PointsGiven, report.AdminVerified)
	}

	again, settled, err := svc.ApproveCollection(context.Background(), "trash_ddd444")
	if err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if settled {
		t.Error("re-approve must not report settled")
	}
	if again.PointsAwarded != CollectionPointsVerified {
		t.Errorf("re-approve award = %d, want existing %d", again.PointsAwarded, CollectionPointsVerified)
	}

	if got := balances.deltas["user_b"]; len(got) != 1 || got[0] != CollectionPointsVerified {
		t.Errorf("collector deltas = %v, want exactly [%d]", got, CollectionPointsVerified)
	}
	if got := groups.deltas["user_b"]; len(got) != 1 || got[0] != CollectionPointsVerified {
		t.Errorf("group deltas = %v, want exactly [%d]", got, CollectionPointsVerified)
	}
}

func TestApproveCollectionRaceLoserGetsConflict(t *testing.T) {
	store := newFakeReportStore()
	svc, balances, _ := newTestSubmissionService(store)
	store.put(collectedReport("trash_eee555", "user_b", CollectionPointsManual))
	store.loseNextApprove = true

	_, settled, err := svc.ApproveCollection(context.Background(), "trash_eee555")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("race loser: err = %v, want ConflictError", err)
	}
	if settled {
		t.Error("race loser must not report settled")
	}
	if len(balances.deltas) != 0 {
		t.Errorf("race loser must not credit, got %v", balances.deltas)
	}
}

func TestRejectSettledCollectionInvalidState(t *testing.T) {
	store := newFakeReportStore()
	svc, _, _ := newTestSubmissionService(store)
	settled := collectedReport("trash_fff666", "user_b", CollectionPointsManual)
	settled.PointsGiven = true
	settled.AdminVerified = true
	store.put(settled)

	_, err := svc.RejectCollection(context.Background(), "trash_fff666")
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Errorf("reject after settlement: err = %v, want InvalidStateError", err)
	}
}

package attendanceimport

import (
	"context"
	"fmt"
	"time"

	"go-payroll/internal/attendance"
	importerrors "go-payroll/internal/attendanceimport/errors"
	"go-payroll/internal/employee"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/dberr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=import_service.go -destination=mock/import_service_mock.go -package=mock
type Service interface {
	Preview(ctx context.Context, actor contextutil.Actor, fileName string, rows []string) (PreviewResult, error)
	Confirm(ctx context.Context, actor contextutil.Actor, previewID string) (ImportOutcome, error)
	Import(ctx context.Context, rows []string) (ImportOutcome, error)
}

type Options struct {
	BannerMarkers []string
	PreviewTTL    time.Duration
	MaxRows       int
}

type service struct {
	repo      attendance.Repository
	employees employee.Registry
	store     PreviewStore
	shift     attendance.Shift
	opts      Options
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	repo attendance.Repository,
	employees employee.Registry,
	store PreviewStore,
	shift attendance.Shift,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendanceimport.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendanceimport.service")
	}
	if opts.PreviewTTL <= 0 {
		opts.PreviewTTL = 30 * time.Minute
	}
	return &service{
		repo:      repo,
		employees: employees,
		store:     store,
		shift:     shift,
		opts:      opts,
		now:       time.Now,
		logger:    l,
	}
}

// parse runs the scanner and resolves every candidate against the
// registry. Nothing is written.
func (s *service) parse(ctx context.Context, rows []string) (ParseResult, error) {
	if len(rows) == 0 {
		return ParseResult{}, importerrors.ErrNoRows
	}
	if s.opts.MaxRows > 0 && len(rows) > s.opts.MaxRows {
		return ParseResult{}, importerrors.ErrTooManyRows
	}

	result := Parse(rows, ParseOptions{BannerMarkers: s.opts.BannerMarkers})

	ids := make([]int64, 0, len(result.Candidates))
	seen := make(map[int64]struct{})
	for _, c := range result.Candidates {
		if c.EmployeeID <= 0 {
			continue
		}
		if _, ok := seen[c.EmployeeID]; !ok {
			seen[c.EmployeeID] = struct{}{}
			ids = append(ids, c.EmployeeID)
		}
	}

	known, err := s.employees.FindByIDs(ctx, ids)
	if err != nil {
		return ParseResult{}, fmt.Errorf("resolve employees: %w", err)
	}
	for i := range result.Candidates {
		_, ok := known[result.Candidates[i].EmployeeID]
		result.Candidates[i].Matched = ok
	}
	return result, nil
}

func (s *service) Preview(ctx context.Context, actor contextutil.Actor, fileName string, rows []string) (PreviewResult, error) {
	result, err := s.parse(ctx, rows)
	if err != nil {
		return PreviewResult{}, err
	}

	now := s.now().UTC()
	p := Preview{
		ID:        uuid.NewString(),
		UserID:    actor.UserID,
		FileName:  fileName,
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.PreviewTTL),
		Result:    result,
	}
	if err := s.store.Save(ctx, p, s.opts.PreviewTTL); err != nil {
		return PreviewResult{}, fmt.Errorf("save preview: %w", err)
	}

	resp := PreviewResult{
		PreviewID:   p.ID,
		FileName:    fileName,
		ExpiresAt:   p.ExpiresAt,
		Period:      result.Period,
		SkippedRows: result.SkippedRows,
		Candidates:  result.Candidates,
	}
	for _, c := range result.Candidates {
		if c.Matched {
			resp.Matched++
		} else {
			resp.Unmatched++
		}
	}

	s.logger.Info("attendance import previewed",
		zap.String("preview_id", p.ID),
		zap.String("file_name", fileName),
		zap.String("user_id", actor.UserID),
		zap.Int("rows", result.TotalRows),
		zap.Int("matched", resp.Matched),
		zap.Int("unmatched", resp.Unmatched),
	)
	return resp, nil
}

// Confirm persists exactly the candidates shown by Preview.
func (s *service) Confirm(ctx context.Context, actor contextutil.Actor, previewID string) (ImportOutcome, error) {
	if _, err := uuid.Parse(previewID); err != nil {
		return ImportOutcome{}, importerrors.ErrInvalidPreviewID
	}

	p, err := s.store.Load(ctx, previewID)
	if err != nil {
		return ImportOutcome{}, err
	}
	if p.UserID != actor.UserID {
		return ImportOutcome{}, importerrors.ErrPreviewNotFound
	}

	outcome, err := s.persist(ctx, p.Result)
	if err != nil {
		// the preview stays so the same file can be confirmed again;
		// rows already stored come back as duplicates.
		return outcome, err
	}

	if err := s.store.Delete(ctx, previewID); err != nil {
		s.logger.Warn("delete confirmed preview failed", zap.String("preview_id", previewID), zap.Error(err))
	}

	s.logger.Info("attendance import confirmed",
		zap.String("preview_id", previewID),
		zap.String("user_id", actor.UserID),
		zap.Int("inserted", outcome.Inserted),
		zap.Int("duplicates", outcome.Duplicates),
		zap.Int("unmatched", outcome.Unmatched),
		zap.Int("failed", outcome.Failed),
	)
	return outcome, nil
}

func (s *service) Import(ctx context.Context, rows []string) (ImportOutcome, error) {
	result, err := s.parse(ctx, rows)
	if err != nil {
		return ImportOutcome{}, err
	}
	outcome, err := s.persist(ctx, result)
	if err != nil {
		return outcome, err
	}

	s.logger.Info("attendance import finished",
		zap.Int("rows", result.TotalRows),
		zap.Int("inserted", outcome.Inserted),
		zap.Int("duplicates", outcome.Duplicates),
		zap.Int("unmatched", outcome.Unmatched),
		zap.Int("failed", outcome.Failed),
	)
	return outcome, nil
}

// persist inserts matched candidates one by one. A failed row does not undo
// earlier ones; existing employee-days are left as they are. Losing the
// database stops the loop and is returned instead of counted.
func (s *service) persist(ctx context.Context, result ParseResult) (ImportOutcome, error) {
	outcome := ImportOutcome{
		SkippedRows:         result.SkippedRows,
		UnmatchedCandidates: []Candidate{},
	}

	for _, c := range result.Candidates {
		if !c.Matched {
			outcome.Unmatched++
			outcome.UnmatchedCandidates = append(outcome.UnmatchedCandidates, c)
			continue
		}

		in, out := c.ClockIn, c.ClockOut
		rec := attendance.NewRecord(s.shift, c.EmployeeID, c.Date, &in, &out, attendance.SourceImport)
		inserted, err := s.repo.InsertIfAbsent(ctx, &rec)
		switch {
		case dberr.IsUnavailable(err):
			s.logger.Error("attendance import aborted",
				zap.Int("line", c.Line),
				zap.Int("inserted", outcome.Inserted),
				zap.Error(err),
			)
			return outcome, fmt.Errorf("store attendance line %d: %w", c.Line, err)
		case err != nil:
			outcome.Failed++
			s.logger.Error("attendance import row failed",
				zap.Int("line", c.Line),
				zap.Int64("employee_id", c.EmployeeID),
				zap.String("date", c.Date.Format(attendance.DateLayout)),
				zap.Error(err),
			)
		case inserted:
			outcome.Inserted++
		default:
			outcome.Duplicates++
		}
	}
	return outcome, nil
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/court-management-api/api"
	"github.com/linesmerrill/court-management-api/config"
	"github.com/linesmerrill/court-management-api/databases"
	"github.com/linesmerrill/court-management-api/models"
)

type generateReportRequest struct {
	Type      string `json:"type"`
	Period    string `json:"period"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Report handles report generation and listing. All access is staff
// only.
type Report struct {
	RDB databases.ReportDatabase
	CDB databases.CaseDatabase
	HDB databases.HearingDatabase

	// Now is the clock non-custom report windows resolve against;
	// defaults to time.Now
	Now func() time.Time
}

func (re Report) now() time.Time {
	if re.Now != nil {
		return re.Now()
	}
	return time.Now()
}

// ReportWindow resolves the [start, end] bounds for a report period.
// custom uses the supplied bounds verbatim; every other period is
// computed relative to the current moment, with weeks starting Sunday.
func (re Report) ReportWindow(period, startDate, endDate string) (time.Time, time.Time, error) {
	now := re.now()

	if period == models.ReportPeriodCustom {
		start, err := parseHearingDate(startDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
		}
		end, err := parseHearingDate(endDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
		}
		return start, end, nil
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
	}

	switch period {
	case models.ReportPeriodDaily:
		return dayStart, endOfDay(now), nil
	case models.ReportPeriodWeekly:
		weekStart := dayStart.AddDate(0, 0, -int(now.Weekday()))
		return weekStart, endOfDay(weekStart.AddDate(0, 0, 6)), nil
	case models.ReportPeriodMonthly:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return monthStart, endOfDay(monthStart.AddDate(0, 1, -1)), nil
	case models.ReportPeriodYearly:
		yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return yearStart, endOfDay(time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())), nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("invalid period %q", period)
}

// ReportsHandler lists the latest 10 generated reports. Staff only.
func (re Report) ReportsHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())
	if identity.Role != models.RoleStaff {
		config.ErrorStatus("Only staff can access reports", http.StatusForbidden, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	reports, err := re.RDB.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(10))
	if err != nil {
		config.ErrorStatus("Failed to fetch reports", http.StatusInternalServerError, w, err)
		return
	}

	config.OKStatus(reports, http.StatusOK, w)
}

// GenerateReportHandler computes an aggregate for a bounded time
// window, persists it as an immutable report record and returns it.
// Staff only. Reports are never recomputed; every call creates a new
// historical record.
func (re Report) GenerateReportHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())
	if identity.Role != models.RoleStaff {
		config.ErrorStatus("Only staff can generate reports", http.StatusForbidden, w, nil)
		return
	}

	var req generateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Type == "" || req.Period == "" {
		config.ErrorStatus("Type and period are required", http.StatusBadRequest, w, nil)
		return
	}
	if !models.ValidReportType(req.Type) {
		config.ErrorStatus("Invalid report type", http.StatusBadRequest, w, nil)
		return
	}
	if !models.ValidReportPeriod(req.Period) {
		config.ErrorStatus("Invalid report period", http.StatusBadRequest, w, nil)
		return
	}

	start, end, err := re.ReportWindow(req.Period, req.StartDate, req.EndDate)
	if err != nil {
		config.ErrorStatus("Invalid report window", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var data interface{}
	switch req.Type {
	case models.ReportTypeCaseProgress:
		data, err = re.caseProgress(r, start, end)
	case models.ReportTypeJudgePerformance:
		data, err = re.judgePerformance(r, start, end)
	case models.ReportTypeResourceUtilization:
		data, err = re.resourceUtilization(r, start, end)
	}
	if err != nil {
		config.ErrorStatus("Failed to generate report", http.StatusInternalServerError, w, err)
		return
	}

	report := models.Report{
		ReportID:  uuid.New().String(),
		Type:      req.Type,
		Period:    req.Period,
		StartDate: primitive.NewDateTimeFromTime(start),
		EndDate:   primitive.NewDateTimeFromTime(end),
		Data:      data,
		CreatedAt: primitive.NewDateTimeFromTime(re.now()),
	}

	if _, err := re.RDB.InsertOne(ctx, report); err != nil {
		config.ErrorStatus("Failed to generate report", http.StatusInternalServerError, w, err)
		return
	}

	config.OKStatus(report, http.StatusOK, w)
}

func windowFilter(start, end time.Time) bson.M {
	return bson.M{"createdAt": bson.M{
		"$gte": primitive.NewDateTimeFromTime(start),
		"$lte": primitive.NewDateTimeFromTime(end),
	}}
}

// caseProgress groups cases created in the window by status
func (re Report) caseProgress(r *http.Request, start, end time.Time) (map[string]int, error) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	pipeline := []bson.M{
		{"$match": windowFilter(start, end)},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}

	cursor, err := re.CDB.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []struct {
		Status string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}

	result := make(map[string]int, len(groups))
	for _, g := range groups {
		result[g.Status] = g.Count
	}
	return result, nil
}

// judgePerformance ranks judges by completed hearings in the window,
// descending
func (re Report) judgePerformance(r *http.Request, start, end time.Time) ([]models.JudgePerformanceEntry, error) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	match := windowFilter(start, end)
	match["status"] = models.HearingStatusCompleted

	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":       "$judgeId",
			"judgeName": bson.M{"$first": "$judgeName"},
			"count":     bson.M{"$sum": 1},
		}},
		{"$sort": bson.M{"count": -1}},
	}

	cursor, err := re.HDB.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.JudgePerformanceEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.JudgePerformanceEntry{}
	}
	return entries, nil
}

// resourceUtilization counts the window's hearings per start time.
// Buckets are the full HH:MM, so 09:15 and 09:45 stay distinct.
func (re Report) resourceUtilization(r *http.Request, start, end time.Time) (map[string]int, error) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	hearings, err := re.HDB.Find(ctx, windowFilter(start, end))
	if err != nil {
		return nil, err
	}

	result := make(map[string]int)
	for _, hearing := range hearings {
		if hearing.StartTime == "" {
			continue
		}
		result[hearing.StartTime]++
	}
	return result, nil
}

package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Report types
const (
	ReportTypeCaseProgress        = "case_progress"
	ReportTypeJudgePerformance    = "judge_performance"
	ReportTypeResourceUtilization = "resource_utilization"
)

// Report periods
const (
	ReportPeriodDaily   = "daily"
	ReportPeriodWeekly  = "weekly"
	ReportPeriodMonthly = "monthly"
	ReportPeriodYearly  = "yearly"
	ReportPeriodCustom  = "custom"
)

// Report holds the structure for the reports collection in mongo.
// Reports are immutable once generated; each generation call creates a
// new historical record.
type Report struct {
	ID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ReportID  string             `json:"reportId" bson:"reportId"`
	Type      string             `json:"type" bson:"type"`
	Period    string             `json:"period" bson:"period"`
	StartDate primitive.DateTime `json:"startDate" bson:"startDate"`
	EndDate   primitive.DateTime `json:"endDate" bson:"endDate"`
	Data      interface{}        `json:"data" bson:"data"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// JudgePerformanceEntry is a single row in a judge_performance report,
// ranked descending by count
type JudgePerformanceEntry struct {
	JudgeID   string `json:"judgeId" bson:"_id"`
	JudgeName string `json:"judgeName" bson:"judgeName"`
	Count     int    `json:"count" bson:"count"`
}

// ValidReportType reports whether t is one of the enumerated report
// types
func ValidReportType(t string) bool {
	switch t {
	case ReportTypeCaseProgress, ReportTypeJudgePerformance, ReportTypeResourceUtilization:
		return true
	}
	return false
}

// ValidReportPeriod reports whether p is one of the enumerated report
// periods
func ValidReportPeriod(p string) bool {
	switch p {
	case ReportPeriodDaily, ReportPeriodWeekly, ReportPeriodMonthly, ReportPeriodYearly, ReportPeriodCustom:
		return true
	}
	return false
}

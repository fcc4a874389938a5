package assistant

import "time"

// ChatRecord is one stored question/answer exchange.
type ChatRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	UserMessage  string    `json:"userMessage"`
	AIResponse   string    `json:"aiResponse"`
	UsedFallback bool      `json:"usedFallback"`
	Timestamp    time.Time `json:"timestamp"`
}

// SymptomAnalysis is the structured result of a symptom check.
type SymptomAnalysis struct {
	PossibleConditions []string `json:"possibleConditions"`
	Severity           string   `json:"severity"`
	Recommendations    []string `json:"recommendations"`
	Urgency            string   `json:"urgency"`
	Disclaimer         string   `json:"disclaimer"`
}

// SymptomCheck is one stored symptom analysis.
type SymptomCheck struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Symptoms     []string        `json:"symptoms"`
	Duration     string          `json:"duration,omitempty"`
	Severity     int             `json:"severity"`
	Analysis     SymptomAnalysis `json:"analysis"`
	UsedFallback bool            `json:"usedFallback"`
	Timestamp    time.Time       `json:"timestamp"`
}

const (
	SessionStarted   = "started"
	SessionCompleted = "completed"
)

// SessionCheck is one entry in a health check session's log.
type SessionCheck struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthSession groups the face analyses of one camera health check.
type HealthSession struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Status    string         `json:"status"`
	StartTime time.Time      `json:"startTime"`
	EndTime   *time.Time     `json:"endTime,omitempty"`
	Checks    []SessionCheck `json:"checks"`
}

// EyeHealth is the eye portion of a face analysis.
type EyeHealth struct {
	Clarity     string `json:"clarity"`
	Redness     string `json:"redness"`
	DarkCircles string `json:"darkCircles"`
}

// FaceResult is the structured result of a face analysis.
type FaceResult struct {
	StressLevel      string    `json:"stressLevel"`
	StressIndicators []string  `json:"stressIndicators"`
	HydrationLevel   string    `json:"hydrationLevel"`
	HydrationSigns   []string  `json:"hydrationSigns"`
	EyeHealth        EyeHealth `json:"eyeHealth"`
	Recommendations  []string  `json:"recommendations"`
	OverallScore     int       `json:"overallScore"`
	Disclaimer       string    `json:"disclaimer"`
}

// FaceAnalysis is one stored face analysis.
type FaceAnalysis struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	SessionID    string     `json:"sessionId,omitempty"`
	Analysis     FaceResult `json:"analysis"`
	UsedFallback bool       `json:"usedFallback"`
	Timestamp    time.Time  `json:"timestamp"`
}

package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wellcare/wellcare/internal/domain/identity"
	"github.com/wellcare/wellcare/internal/domain/medication"
	"github.com/wellcare/wellcare/internal/domain/vitals"
	"github.com/wellcare/wellcare/internal/platform/apperr"
	"github.com/wellcare/wellcare/internal/platform/llm"
)

const (
	chatModel   = "gpt-3.5-turbo"
	visionModel = "gpt-4o"

	maxHistoryTurns = 10
)

// Completer is the completion client. Any error from it sends the caller
// down the static fallback path.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// ProfileSource provides the caller's profile for prompt context.
type ProfileSource interface {
	GetProfile(ctx context.Context, id string) (*identity.Principal, error)
}

// VitalSource provides the caller's readings for prompt context.
type VitalSource interface {
	List(ctx context.Context, callerID, targetOwnerID string) ([]*vitals.Vital, error)
}

// MedicationSource provides the caller's medication list for prompt context.
type MedicationSource interface {
	List(ctx context.Context, callerID, targetOwnerID string) ([]*medication.Medication, error)
}

type Service struct {
	repo     Repository
	llm      Completer
	profiles ProfileSource
	vitals   VitalSource
	meds     MedicationSource
	log      zerolog.Logger
}

func NewService(repo Repository, llm Completer, profiles ProfileSource, vitals VitalSource, meds MedicationSource, log zerolog.Logger) *Service {
	return &Service{repo: repo, llm: llm, profiles: profiles, vitals: vitals, meds: meds, log: log}
}

// buildContext gathers the caller's profile, latest reading, and active
// medications. Lookup failures degrade to an empty context rather than
// failing the chat.
func (s *Service) buildContext(ctx context.Context, userID string) healthContext {
	var hc healthContext
	if p, err := s.profiles.GetProfile(ctx, userID); err == nil {
		hc.UserName = p.Name
	}
	if list, err := s.vitals.List(ctx, userID, userID); err == nil && len(list) > 0 {
		hc.HasVital = true
		hc.Systolic = list[0].Systolic
		hc.Diastolic = list[0].Diastolic
		hc.Pulse = list[0].Pulse
	}
	if list, err := s.meds.List(ctx, userID, userID); err == nil {
		for _, m := range list {
			if m.Active {
				hc.ActiveMeds = append(hc.ActiveMeds, medSummary{Name: m.Name, Dosage: m.Dosage})
			}
		}
	}
	return hc
}

func systemPrompt(hc healthContext) string {
	parts := []string{
		"You are a helpful AI health assistant for WellCare Companion.",
	}
	if hc.UserName != "" {
		parts = append(parts, fmt.Sprintf("The user's name is %s.", hc.UserName))
	} else {
		parts = append(parts, "The user's name is the patient.")
	}
	if hc.HasVital {
		v := fmt.Sprintf("Their most recent blood pressure reading was %d/%d mmHg", hc.Systolic, hc.Diastolic)
		if hc.Pulse != nil {
			v += fmt.Sprintf(" with a pulse of %d bpm", *hc.Pulse)
		}
		parts = append(parts, v+".")
	}
	if len(hc.ActiveMeds) > 0 {
		parts = append(parts, fmt.Sprintf("They are currently taking %d medication(s): %s.", len(hc.ActiveMeds), hc.medList()))
	}
	parts = append(parts, "Provide helpful, accurate health information. Always remind users to consult healthcare professionals for medical advice. Be empathetic and supportive. Keep responses concise and easy to understand.")
	return strings.Join(parts, " ")
}

// HistoryMessage is one prior conversation turn supplied by the client.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResult is the assistant's reply plus whether it came from the
// fallback responder.
type ChatResult struct {
	Message      string `json:"message"`
	UsedFallback bool   `json:"usedFallback"`
}

// Chat answers a free-form health question with the caller's own data as
// context and stores the exchange.
func (s *Service) Chat(ctx context.Context, userID, message string, history []HistoryMessage) (*ChatResult, error) {
	if message == "" {
		return nil, apperr.E(apperr.InvalidInput, "message is required")
	}

	hc := s.buildContext(ctx, userID)

	msgs := []llm.Message{{Role: "system", Content: systemPrompt(hc)}}
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	for _, h := range history {
		if h.Role != "" && h.Content != "" {
			msgs = append(msgs, llm.Message{Role: h.Role, Content: h.Content})
		}
	}
	msgs = append(msgs, llm.Message{Role: "user", Content: message})

	reply, err := s.llm.Complete(ctx, llm.Request{
		Model:       chatModel,
		Messages:    msgs,
		Temperature: 0.7,
		MaxTokens:   500,
	})
	usedFallback := false
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("chat completion failed, using fallback")
		reply = fallbackChat(message, hc)
		usedFallback = true
	}

	now := time.Now().UTC()
	rec := &ChatRecord{
		ID:           chatKey(userID, now.UnixNano()),
		UserID:       userID,
		UserMessage:  message,
		AIResponse:   reply,
		UsedFallback: usedFallback,
		Timestamp:    now,
	}
	if err := s.repo.CreateChat(ctx, rec); err != nil {
		return nil, err
	}
	return &ChatResult{Message: reply, UsedFallback: usedFallback}, nil
}

// ChatHistory returns the caller's stored exchanges oldest first.
func (s *Service) ChatHistory(ctx context.Context, userID string) ([]*ChatRecord, error) {
	list, err := s.repo.ListChatsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Timestamp.Before(list[j].Timestamp) })
	return list, nil
}

const symptomSystemPrompt = `You are a medical information assistant. Analyze symptoms and provide educational information. Always emphasize consulting healthcare professionals.

Return ONLY a valid JSON object with this exact structure:
{
  "possibleConditions": ["condition1", "condition2"],
  "severity": "mild|moderate|severe",
  "recommendations": ["recommendation1", "recommendation2"],
  "urgency": "low|medium|high",
  "disclaimer": "This is for informational purposes only. Not a medical diagnosis."
}`

// SymptomCheck analyzes the caller's symptoms and stores the result.
// Severity is the caller's own 1-10 rating and defaults to 5.
func (s *Service) SymptomCheck(ctx context.Context, userID string, symptoms []string, duration string, severity int) (*SymptomCheck, error) {
	if len(symptoms) == 0 {
		return nil, apperr.E(apperr.InvalidInput, "symptoms are required")
	}
	if severity <= 0 {
		severity = 5
	}

	age := "Not specified"
	conditions := "None"
	if p, err := s.profiles.GetProfile(ctx, userID); err == nil {
		if p.Age != nil {
			age = fmt.Sprintf("%d", *p.Age)
		}
		if len(p.Conditions) > 0 {
			conditions = strings.Join(p.Conditions, ", ")
		}
	}
	if duration == "" {
		duration = "Not specified"
	}

	userPrompt := fmt.Sprintf(`Analyze these symptoms:
- Symptoms: %s
- Duration: %s
- Severity (1-10): %d
- User age: %s
- Existing conditions: %s

Return analysis as JSON.`, strings.Join(symptoms, ", "), duration, severity, age, conditions)

	var analysis SymptomAnalysis
	usedFallback := false
	raw, err := s.llm.Complete(ctx, llm.Request{
		Model: visionModel,
		Messages: []llm.Message{
			{Role: "system", Content: symptomSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.7,
		MaxTokens:   1500,
		JSONOutput:  true,
	})
	if err == nil {
		err = json.Unmarshal([]byte(raw), &analysis)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("symptom analysis failed, using fallback")
		analysis = fallbackSymptomAnalysis(severity)
		usedFallback = true
	} else {
		fillSymptomDefaults(&analysis)
	}

	now := time.Now().UTC()
	sc := &SymptomCheck{
		ID:           symptomKey(userID, now.UnixNano()),
		UserID:       userID,
		Symptoms:     symptoms,
		Duration:     duration,
		Severity:     severity,
		Analysis:     analysis,
		UsedFallback: usedFallback,
		Timestamp:    now,
	}
	if err := s.repo.CreateSymptomCheck(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func fillSymptomDefaults(a *SymptomAnalysis) {
	if len(a.PossibleConditions) == 0 {
		a.PossibleConditions = []string{"Unable to determine"}
	}
	if a.Severity == "" {
		a.Severity = "moderate"
	}
	if len(a.Recommendations) == 0 {
		a.Recommendations = []string{"Consult a healthcare professional"}
	}
	if a.Urgency == "" {
		a.Urgency = "medium"
	}
	if a.Disclaimer == "" {
		a.Disclaimer = "This is for informational purposes only."
	}
}

// SymptomHistory returns the caller's stored checks newest first.
func (s *Service) SymptomHistory(ctx context.Context, userID string) ([]*SymptomCheck, error) {
	list, err := s.repo.ListSymptomChecksByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Timestamp.After(list[j].Timestamp) })
	return list, nil
}

// StartSession opens a camera health check session.
func (s *Service) StartSession(ctx context.Context, userID string) (*HealthSession, error) {
	now := time.Now().UTC()
	sess := &HealthSession{
		ID:        sessionKey(userID, now.UnixNano()),
		UserID:    userID,
		Status:    SessionStarted,
		StartTime: now,
		Checks:    []SessionCheck{},
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

const faceSystemPrompt = `You are a health analysis assistant. Analyze facial features for wellness indicators. Provide general observations only, not medical diagnoses.

Analyze for:
1. Stress indicators (facial tension, eye strain)
2. Hydration (lip appearance, skin texture)
3. Eye health (redness, clarity, dark circles)
4. Overall wellness appearance

Return ONLY valid JSON with this structure:
{
  "stressLevel": "low|medium|high",
  "stressIndicators": ["indicator1", "indicator2"],
  "hydrationLevel": "well-hydrated|adequate|dehydrated",
  "hydrationSigns": ["sign1", "sign2"],
  "eyeHealth": {
    "clarity": "good|fair|poor",
    "redness": "none|mild|moderate|severe",
    "darkCircles": "none|mild|moderate|severe"
  },
  "recommendations": ["recommendation1", "recommendation2"],
  "overallScore": 85,
  "disclaimer": "This is not a medical diagnosis. Consult healthcare professionals."
}`

// AnalyzeFace runs a vision analysis over a camera frame. When sessionID is
// set and names one of the caller's sessions, the analysis is appended to
// that session's check log; a bad session id does not fail the analysis.
func (s *Service) AnalyzeFace(ctx context.Context, userID, imageData, sessionID string) (*FaceAnalysis, error) {
	if imageData == "" {
		return nil, apperr.E(apperr.InvalidInput, "image data is required")
	}

	var result FaceResult
	usedFallback := false
	raw, err := s.llm.Complete(ctx, llm.Request{
		Model: visionModel,
		Messages: []llm.Message{
			{Role: "system", Content: faceSystemPrompt},
			{Role: "user", Content: []interface{}{
				llm.TextPart("Analyze this face for stress, hydration, and eye health indicators. Return JSON only."),
				llm.ImagePart(imageData),
			}},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
		JSONOutput:  true,
	})
	if err == nil {
		err = json.Unmarshal([]byte(raw), &result)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("face analysis failed, using fallback")
		result = fallbackFaceResult()
		usedFallback = true
	} else {
		fillFaceDefaults(&result)
	}

	now := time.Now().UTC()
	fa := &FaceAnalysis{
		ID:           faceKey(userID, now.UnixNano()),
		UserID:       userID,
		SessionID:    sessionID,
		Analysis:     result,
		UsedFallback: usedFallback,
		Timestamp:    now,
	}
	if err := s.repo.CreateFaceAnalysis(ctx, fa); err != nil {
		return nil, err
	}

	if sessionID != "" {
		if sess, err := s.repo.GetSession(ctx, sessionID); err == nil && sess.UserID == userID {
			sess.Checks = append(sess.Checks, SessionCheck{Type: "face-analysis", ID: fa.ID, Timestamp: now})
			if err := s.repo.UpdateSession(ctx, sess); err != nil {
				s.log.Warn().Err(err).Str("session_id", sessionID).Msg("session check append failed")
			}
		}
	}
	return fa, nil
}

func fillFaceDefaults(r *FaceResult) {
	if r.StressLevel == "" {
		r.StressLevel = "medium"
	}
	if len(r.StressIndicators) == 0 {
		r.StressIndicators = []string{"Facial features analyzed"}
	}
	if r.HydrationLevel == "" {
		r.HydrationLevel = "adequate"
	}
	if len(r.HydrationSigns) == 0 {
		r.HydrationSigns = []string{"Normal appearance"}
	}
	if r.EyeHealth == (EyeHealth{}) {
		r.EyeHealth = EyeHealth{Clarity: "good", Redness: "none", DarkCircles: "mild"}
	}
	if len(r.Recommendations) == 0 {
		r.Recommendations = []string{"Maintain good health habits"}
	}
	if r.OverallScore == 0 {
		r.OverallScore = 75
	}
	if r.Disclaimer == "" {
		r.Disclaimer = "This is not a medical diagnosis."
	}
}

// CompleteSession closes one of the caller's sessions. A session belonging
// to someone else is reported as NotFound.
func (s *Service) CompleteSession(ctx context.Context, userID, sessionID string) (*HealthSession, error) {
	if sessionID == "" {
		return nil, apperr.E(apperr.InvalidInput, "sessionId is required")
	}
	sess, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, apperr.E(apperr.NotFound, "session not found")
	}
	now := time.Now().UTC()
	sess.Status = SessionCompleted
	sess.EndTime = &now
	if err := s.repo.UpdateSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// CheckHistory is the caller's health check sessions and face analyses,
// each newest first.
type CheckHistory struct {
	Sessions []*HealthSession `json:"sessions"`
	Analyses []*FaceAnalysis  `json:"analyses"`
}

func (s *Service) History(ctx context.Context, userID string) (*CheckHistory, error) {
	sessions, err := s.repo.ListSessionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	analyses, err := s.repo.ListFaceAnalysesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].StartTime.After(sessions[j].StartTime) })
	sort.Slice(analyses, func(i, j int) bool { return analyses[i].Timestamp.After(analyses[j].Timestamp) })
	return &CheckHistory{Sessions: sessions, Analyses: analyses}, nil
}

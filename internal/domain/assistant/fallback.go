package assistant

import (
	"fmt"
	"strings"
)

// healthContext is the per-user context both the system prompt and the
// fallback responder draw from.
type healthContext struct {
	UserName   string
	Systolic   int
	Diastolic  int
	Pulse      *int
	HasVital   bool
	ActiveMeds []medSummary
}

type medSummary struct {
	Name   string
	Dosage string
}

func (hc healthContext) medList() string {
	parts := make([]string, 0, len(hc.ActiveMeds))
	for _, m := range hc.ActiveMeds {
		parts = append(parts, fmt.Sprintf("%s (%s)", m.Name, m.Dosage))
	}
	return strings.Join(parts, ", ")
}

// fallbackChat answers a chat message from keyword templates when the
// completion API is unavailable.
func fallbackChat(message string, hc healthContext) string {
	m := strings.ToLower(message)

	contains := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(m, s) {
				return true
			}
		}
		return false
	}

	if contains("blood pressure", "bp") {
		if hc.HasVital {
			status := "within normal range"
			advice := "Continue monitoring your blood pressure regularly."
			switch {
			case hc.Systolic >= 140 || hc.Diastolic >= 90:
				status = "elevated"
				advice = "I recommend consulting your healthcare provider about this elevated reading."
			case hc.Systolic >= 130 || hc.Diastolic >= 85:
				status = "slightly elevated"
			}
			return fmt.Sprintf("Your most recent blood pressure reading was %d/%d mmHg, which is %s. Normal blood pressure is typically around 120/80 mmHg. %s Always follow your doctor's advice regarding your blood pressure management.",
				hc.Systolic, hc.Diastolic, status, advice)
		}
		if contains("normal", "should", "healthy") {
			return "Normal blood pressure is typically around 120/80 mmHg. Here's what the ranges mean:\n\n- Normal: Less than 120/80 mmHg\n- Elevated: 120-129/80 mmHg\n- High (Stage 1): 130-139/80-89 mmHg\n- High (Stage 2): 140+/90+ mmHg\n\nAlways consult your healthcare provider for personalized guidance based on your health history."
		}
		if contains("lower", "reduce", "improve", "decrease") {
			return "Here are evidence-based ways to help lower blood pressure:\n\n1. Diet: Reduce sodium intake (aim for less than 2,300mg/day), eat more fruits, vegetables, and whole grains\n2. Exercise: Aim for 30 minutes of moderate activity most days\n3. Weight: Maintain a healthy weight\n4. Alcohol: Limit alcohol consumption\n5. Stress: Practice relaxation techniques like deep breathing or meditation\n6. Sleep: Get 7-9 hours of quality sleep\n7. Medications: Take prescribed medications as directed\n\nAlways consult your healthcare provider before making significant lifestyle changes."
		}
	}

	if contains("medication", "medicine", "pill", "drug") {
		if len(hc.ActiveMeds) > 0 {
			if contains("when", "time", "take") {
				return fmt.Sprintf("You're currently taking: %s.\n\nMedication timing is very important and specific to each medication and individual. Please follow your doctor's or pharmacist's instructions exactly. If you're unsure about when to take any of your medications, contact your healthcare provider or pharmacist for clarification.", hc.medList())
			}
			return fmt.Sprintf("You're currently taking %d medication(s): %s.\n\nIt's important to take all medications exactly as prescribed. If you have questions about your medications, their side effects, or interactions, please consult your healthcare provider or pharmacist.", len(hc.ActiveMeds), hc.medList())
		}
		return "I don't see any medications logged in your profile. If you're taking medications, you can add them in the Medications section. Always take medications exactly as prescribed by your healthcare provider."
	}

	if strings.Contains(m, "heart") && contains("health", "habit", "healthy") {
		return "Great question! Here are key habits for heart health:\n\n1. Regular Exercise: 150 minutes of moderate activity per week\n2. Healthy Diet: Lots of fruits, vegetables, whole grains, lean proteins\n3. Monitor Blood Pressure: Check regularly and keep it under control\n4. Manage Stress: Practice relaxation techniques\n5. Don't Smoke: Avoid tobacco products\n6. Limit Alcohol: Moderate consumption if at all\n7. Maintain Healthy Weight: Work with your doctor on a healthy weight range\n8. Regular Check-ups: See your healthcare provider regularly\n\nThese habits, combined with any prescribed medications, can significantly improve heart health."
	}

	if contains("stress", "anxiety", "relax") {
		return "Stress management is important for overall health, especially blood pressure. Here are some techniques:\n\n1. Deep Breathing: Practice slow, deep breaths for 5-10 minutes\n2. Meditation: Even 5 minutes daily can help\n3. Physical Activity: Exercise is a great stress reliever\n4. Sleep: Prioritize 7-9 hours of quality sleep\n5. Social Connections: Stay connected with friends and family\n6. Hobbies: Engage in activities you enjoy\n7. Limit Caffeine: Reduce if it makes you anxious\n\nIf stress feels overwhelming, please talk to your healthcare provider about additional support options."
	}

	if contains("exercise", "activity", "workout") {
		return "Regular physical activity is excellent for your health! For most adults:\n\n- 150 minutes of moderate-intensity aerobic activity per week (like brisk walking)\n- Or 75 minutes of vigorous activity per week, spread throughout the week\n- Include muscle-strengthening activities 2+ days per week\n\nGood options include walking, swimming, cycling, gardening, and dancing.\n\nBefore starting a new exercise program, especially if you have health conditions, consult your healthcare provider to ensure it's safe and appropriate for you."
	}

	if contains("diet", "food", "eat", "nutrition") {
		return "A heart-healthy diet can significantly impact your overall health.\n\nEat more: fruits and vegetables (5+ servings daily), whole grains, lean proteins (fish, poultry, beans, nuts), low-fat dairy, and foods rich in potassium and magnesium.\n\nEat less: sodium (under 2,300mg/day), saturated and trans fats, added sugars, and processed foods.\n\nConsider the DASH diet, designed specifically for blood pressure management. Ask your healthcare provider or a registered dietitian for personalized nutrition advice."
	}

	if contains("chest pain", "dizzy", "emergency") {
		return "IMPORTANT: If you're experiencing chest pain, severe dizziness, difficulty breathing, or other serious symptoms, please:\n\n1. Call 911 immediately or go to the nearest emergency room\n2. Do not wait to see if symptoms improve\n3. Do not drive yourself if possible\n\nThis assistant is NOT a substitute for emergency medical care. When in doubt, seek immediate medical attention."
	}

	if contains("hello", "hi ", "hey") {
		greeting := "Hello"
		if hc.UserName != "" {
			greeting += " " + hc.UserName
		}
		return greeting + "! I'm here to help answer your health questions. I can provide information about:\n\n- Blood pressure and vital signs\n- Medications\n- Heart-healthy lifestyle habits\n- Exercise and nutrition\n- Stress management\n\nWhat would you like to know?"
	}

	return "I'm here to help with your health questions! I can provide information about:\n\n- Understanding your blood pressure readings\n- Healthy lifestyle habits\n- Medication information\n- Heart health tips\n- Exercise and nutrition guidance\n\nWhat specific health topic would you like to learn about? Remember, I provide general information and you should always consult your healthcare provider for medical advice specific to your situation."
}

// fallbackSymptomAnalysis derives a conservative analysis from the caller's
// own severity rating when the completion API is unavailable.
func fallbackSymptomAnalysis(severity int) SymptomAnalysis {
	a := SymptomAnalysis{
		PossibleConditions: []string{"Analysis unavailable"},
		Severity:           "mild",
		Recommendations: []string{
			"Please consult a healthcare professional",
			"Monitor your symptoms closely",
			"Seek immediate care if symptoms worsen",
		},
		Urgency:    "medium",
		Disclaimer: "This is for informational purposes only. Not a medical diagnosis.",
	}
	switch {
	case severity > 7:
		a.Severity = "severe"
		a.Urgency = "high"
	case severity > 4:
		a.Severity = "moderate"
	}
	return a
}

// fallbackFaceResult is the static result used when the vision API is
// unavailable.
func fallbackFaceResult() FaceResult {
	return FaceResult{
		StressLevel:      "medium",
		StressIndicators: []string{"General facial analysis completed", "Wellness indicators detected"},
		HydrationLevel:   "adequate",
		HydrationSigns:   []string{"Normal skin appearance", "Adequate moisture levels"},
		EyeHealth:        EyeHealth{Clarity: "good", Redness: "none", DarkCircles: "mild"},
		Recommendations: []string{
			"Maintain regular sleep schedule",
			"Stay well hydrated throughout the day",
			"Take regular breaks from screens",
			"Practice stress management techniques",
		},
		OverallScore: 75,
		Disclaimer:   "This is not a medical diagnosis. Consult healthcare professionals for medical advice.",
	}
}

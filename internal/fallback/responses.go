package fallback

import (
	"github.com/aurahealth/aura-be/internal/triage"
)

// Response represents a canned chat-level failure response
type Response struct {
	Content string
	Action  string // "retry", "contact_support", "emergency"
}

var categoryFallbacks = map[triage.Category]Response{
	triage.CategoryEmergency: {
		Content: "I'm having trouble responding right now, but this does not change my guidance: if this is a medical emergency, contact your local emergency services immediately (911 in the US, 112 in Europe, 108 in India) or go to the nearest emergency room.",
		Action:  "emergency",
	},
	triage.CategoryMentalHealth: {
		Content: "I'm having trouble responding right now, and I'm sorry for the interruption. Please try sending your message again in a moment. If you are in crisis, please contact emergency services or a crisis line immediately.",
		Action:  "retry",
	},
	triage.CategoryGeneral: {
		Content: "I'm having trouble processing your message right now. Please try again in a moment. If your concern is urgent, it's best to contact a doctor or healthcare provider directly.",
		Action:  "retry",
	},
}

var timeoutFallback = Response{
	Content: "I'm taking longer than usual to respond. This might be a temporary issue, so please try again. If your concern is urgent, contact a healthcare provider directly.",
	Action:  "retry",
}

var circuitOpenFallback = Response{
	Content: "I'm temporarily unavailable due to technical difficulties. I'll be back shortly. For urgent matters, please contact a healthcare provider or emergency services directly.",
	Action:  "contact_support",
}

var triageFallback = Response{
	Content: "I couldn't read your message properly just now. Please try sending it again. If this is an emergency, don't wait for me: contact your local emergency services.",
	Action:  "retry",
}

// GetFallbackResponse returns the canned response for a failed LLM call in
// an already-classified session.
func GetFallbackResponse(category triage.Category) Response {
	if response, ok := categoryFallbacks[category]; ok {
		return response
	}
	return Response{
		Content: "I'm sorry, I'm having technical difficulties. Please try again.",
		Action:  "retry",
	}
}

// GetTimeoutResponse returns a timeout-specific fallback
func GetTimeoutResponse() Response {
	return timeoutFallback
}

// GetCircuitOpenResponse returns the fallback used while the provider
// circuit is open.
func GetCircuitOpenResponse() Response {
	return circuitOpenFallback
}

// GetTriageFailureResponse returns the fallback for a failed classification
// call. The session stays unclassified so the user can retry.
func GetTriageFailureResponse() Response {
	return triageFallback
}

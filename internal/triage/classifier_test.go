package triage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aurahealth/aura-be/pkg/llm"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Category
	}{
		{name: "plain general", raw: "General", want: CategoryGeneral},
		{name: "plain emergency", raw: "Emergency", want: CategoryEmergency},
		{name: "plain mental health", raw: "Mental Health", want: CategoryMentalHealth},
		{name: "lowercase", raw: "emergency", want: CategoryEmergency},
		{name: "surrounding whitespace", raw: "  General \n", want: CategoryGeneral},
		{name: "trailing period", raw: "Mental Health.", want: CategoryMentalHealth},
		{name: "quoted label", raw: `"Emergency"`, want: CategoryEmergency},
		{name: "verbose answer", raw: "This sounds like a Mental Health concern in general.", want: CategoryMentalHealth},
		{name: "underscored", raw: "mental_health", want: CategoryMentalHealth},
		{name: "unknown label", raw: "Dermatology", want: CategoryUnset},
		{name: "empty", raw: "", want: CategoryUnset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCategory(tt.raw); got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name      string
		modelText string
		want      Category
	}{
		{name: "hopeless routes to mental health", modelText: "Mental Health", want: CategoryMentalHealth},
		{name: "headache routes to general", modelText: "General", want: CategoryGeneral},
		{name: "self harm routes to emergency", modelText: "Emergency", want: CategoryEmergency},
		{name: "unmatched output falls back to general", modelText: "I cannot classify this.", want: CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockClient()
			mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
				return llm.TextResponse(tt.modelText), nil
			}

			cls := NewClassifier(mock)
			got, err := cls.Classify(context.Background(), "I've been feeling really hopeless lately")
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifier_ClassifySendsStatement(t *testing.T) {
	mock := llm.NewMockClient()
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		return llm.TextResponse("General"), nil
	}

	cls := NewClassifier(mock)
	statement := "I have a mild headache, should I see a doctor?"
	if _, err := cls.Classify(context.Background(), statement); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	req, ok := mock.LastChatCall()
	if !ok {
		t.Fatal("expected a chat completion call")
	}
	if len(req.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != "system" {
		t.Errorf("first message role = %q, want system", req.Messages[0].Role)
	}
	if !strings.Contains(req.Messages[1].Content, statement) {
		t.Error("user statement missing from classification request")
	}
	if req.Temperature != 0 {
		t.Errorf("temperature = %v, want 0 for deterministic labels", req.Temperature)
	}
}

func TestClassifier_ClassifyProviderFailure(t *testing.T) {
	wantErr := errors.New("quota exceeded")
	mock := llm.NewMockClient()
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		return nil, wantErr
	}

	cls := NewClassifier(mock)
	got, err := cls.Classify(context.Background(), "chest pains")
	if err == nil {
		t.Fatal("expected error from provider failure")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want wrapped %v", err, wantErr)
	}
	if got != CategoryUnset {
		t.Errorf("category = %q, want unset after failure", got)
	}
}

func TestCategory_Label(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryGeneral, "General"},
		{CategoryEmergency, "Emergency"},
		{CategoryMentalHealth, "Mental Health"},
		{CategoryUnset, "Unclassified"},
	}
	for _, tt := range tests {
		if got := tt.cat.Label(); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

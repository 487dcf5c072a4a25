package connector

import (
	"net/http"
	"testing"

	"aihub/internal/core"
)

func TestGatewayConstructionAlwaysSucceeds(t *testing.T) {
	c := NewGateway(&InstanceConfig{Name: "gw", Model: "gpt-4o"}, http.DefaultClient, testTrace(t))
	if c == nil {
		t.Fatal("expected gateway connector")
	}
	if c.inner != nil {
		t.Error("inner connector must not be chosen at construction time")
	}
}

func TestGatewayUsedBeforeSetupPanics(t *testing.T) {
	c := NewGateway(&InstanceConfig{Name: "gw", Model: "gpt-4o"}, http.DefaultClient, testTrace(t))

	defer func() {
		if recover() == nil {
			t.Error("expected panic when forwarding before PromptData")
		}
	}()
	c.Unit()
}

func TestGatewayWrapsTextModel(t *testing.T) {
	c := NewGateway(&InstanceConfig{Name: "gw", Model: "gpt-4o"}, http.DefaultClient, testTrace(t))

	if _, err := c.PromptData("hello", chatOptions(t, nil)); err != nil {
		t.Fatalf("PromptData: %v", err)
	}
	if _, ok := c.inner.(*OpenAI); !ok {
		t.Fatalf("expected text inner connector, got %T", c.inner)
	}
	if c.inner.Instance().Model != "gpt-4o" {
		t.Errorf("inner model should be plain, got %q", c.inner.Instance().Model)
	}
	if c.inner.Instance().ID != "" {
		t.Error("wrapped instance must not carry a persisted id")
	}
}

func TestGatewayWrapsImageModel(t *testing.T) {
	instance := &InstanceConfig{
		Name:   "gw",
		Model:  "dall-e-3 " + core.GatewayImgGenMarker,
		APIKey: "sk-test",
	}
	c := NewGateway(instance, http.DefaultClient, testTrace(t))

	purpose, _ := core.PurposeByName(core.PurposeImgGen)
	opts := core.NewRequestOptions(purpose, core.RequestContext{ID: 1}, "forum", nil)
	if err := opts.Sanitize(); err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	if _, err := c.PromptData("a red balloon", opts); err != nil {
		t.Fatalf("PromptData: %v", err)
	}
	if _, ok := c.inner.(*OpenAIImage); !ok {
		t.Fatalf("expected image inner connector, got %T", c.inner)
	}
	if c.inner.Instance().Model != "dall-e-3" {
		t.Errorf("marker should be stripped, got %q", c.inner.Instance().Model)
	}
	if c.inner.Instance().APIKey != "sk-test" {
		t.Error("connection settings must be adopted from the outer instance")
	}
}

func TestGatewayModelsByPurposePartitioning(t *testing.T) {
	instance := &InstanceConfig{
		Name:  "gw",
		Model: "gpt-4o",
		Models: []string{
			"gpt-4o",
			"dall-e-3 " + core.GatewayImgGenMarker,
			"gpt-4o-vision " + core.GatewayVisionMarker,
		},
	}
	c := NewGateway(instance, http.DefaultClient, testTrace(t))

	byPurpose := c.ModelsByPurpose()
	if got := byPurpose[core.PurposeImgGen]; len(got) != 1 || got[0] != "dall-e-3" {
		t.Errorf("imggen models = %v", got)
	}
	if got := byPurpose[core.PurposeITT]; len(got) != 1 || got[0] != "gpt-4o-vision" {
		t.Errorf("itt models = %v", got)
	}
	if got := byPurpose[core.PurposeChat]; len(got) != 1 || got[0] != "gpt-4o" {
		t.Errorf("chat models = %v", got)
	}
}

func TestStripMarkers(t *testing.T) {
	if got := stripMarkers("dall-e-3 " + core.GatewayImgGenMarker); got != "dall-e-3" {
		t.Errorf("stripMarkers = %q", got)
	}
	if got := stripMarkers("gpt-4o"); got != "gpt-4o" {
		t.Errorf("plain model must pass through, got %q", got)
	}
}

package culture

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Indian", "indian"},
		{"Native American", "native_american"},
		{"  Greek  ", "greek"},
		{"CELTIC", "celtic"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookupKnownCulture(t *testing.T) {
	ctx := Lookup("Japanese")
	if ctx.Examples == "" || ctx.Elements == "" || ctx.Style == "" {
		t.Fatalf("Lookup(Japanese) returned incomplete context: %+v", ctx)
	}
}

func TestLookupUnknownFallsBackToDefault(t *testing.T) {
	got := Lookup("martian")
	want := Lookup(DefaultKey)
	if got != want {
		t.Errorf("unknown culture should fall back to default, got %+v", got)
	}
	if Known("martian") {
		t.Error("Known(martian) = true, want false")
	}
}

func TestThemeAndGradientNeverEmpty(t *testing.T) {
	for _, name := range append(Names(), "atlantean") {
		theme := LookupTheme(name)
		if theme.Background == "" || theme.Accent == "" {
			t.Errorf("theme for %q incomplete: %+v", name, theme)
		}
		top, bottom := GradientPalette(name)
		if top == bottom {
			t.Errorf("gradient for %q has identical endpoints", name)
		}
	}
}

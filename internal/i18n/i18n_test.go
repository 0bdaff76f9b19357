// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.
package i18n

import (
	"slices"
	"testing"
)

func TestInitAndAvailableLocales(t *testing.T) {
	Init("en")
	if GetLang() != "en" {
		t.Fatalf("expected lang 'en', got %q", GetLang())
	}

	av := AvailableLocales()
	for _, k := range []string{"en", "de"} {
		if !slices.Contains(av, k) {
			t.Fatalf("expected available locale %q to be present, got %v", k, av)
		}
	}
}

func TestT_BasicAndFormatting(t *testing.T) {
	Init("en")

	if got := T("nav.login"); got != "Log In" {
		t.Fatalf("expected 'Log In', got %q", got)
	}

	got := T("error.missing_required_field", "title")
	if got != "Missing required field title." {
		t.Fatalf("unexpected formatted translation: %q", got)
	}
}

func TestT_UnknownIDFallsBack(t *testing.T) {
	Init("en")
	if got := T("no.such.message"); got != "no.such.message" {
		t.Fatalf("expected id fallback, got %q", got)
	}
}

func TestSetLang_German(t *testing.T) {
	SetLang("de")
	defer SetLang("en")

	if got := T("nav.logout"); got != "Abmelden" {
		t.Fatalf("expected German translation, got %q", got)
	}
}

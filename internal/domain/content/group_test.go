package content

import (
	"strings"
	"testing"

	"convocast-go/internal/domain/confluence"
	helpers "convocast-go/internal/platform/testing"
)

func TestGroupPagesSmallInput(t *testing.T) {
	pages := []confluence.Page{
		makePage("1", "Alpha", "Content for the alpha page goes here."),
		makePage("2", "Beta", "Content for the beta page goes here."),
	}

	groups := groupPages(pages)
	if len(groups) != 1 {
		t.Fatalf("expected one comprehensive group, got %d", len(groups))
	}
	helpers.AssertEqual(t, "Comprehensive Onboarding Guide", groups[0].Name)
	helpers.AssertEqual(t, 2, len(groups[0].Pages))
	if !strings.Contains(groups[0].Combined, "=== Alpha ===") ||
		!strings.Contains(groups[0].Combined, "=== Beta ===") {
		t.Errorf("combined content missing page headers: %q", groups[0].Combined)
	}
}

func TestGroupPagesByKeyword(t *testing.T) {
	pages := []confluence.Page{
		makePage("1", "API Gateway", "Requests flow through the edge with per-tenant limits."),
		makePage("2", "API Authentication", "Tokens are issued by the identity provider."),
		makePage("3", "Deploy Runbook", "Ship the build to staging first, then promote."),
		makePage("4", "Deploy Checklist", "Verify dashboards before and after each rollout."),
	}

	groups := groupPages(pages)
	if len(groups) != 2 {
		t.Fatalf("expected 2 keyword groups, got %d: %+v", len(groups), groupNames(groups))
	}
	helpers.AssertEqual(t, "Api Documentation", groups[0].Name)
	helpers.AssertEqual(t, "Deploy Documentation", groups[1].Name)
	helpers.AssertEqual(t, 2, len(groups[0].Pages))
	helpers.AssertEqual(t, 2, len(groups[1].Pages))
}

func TestGroupPagesGeneralBucket(t *testing.T) {
	pages := []confluence.Page{
		makePage("1", "Alpha Notes", "Some unrelated words describing the first area."),
		makePage("2", "Bravo Summary", "Completely different prose covering another area."),
		makePage("3", "Charlie Report", "More prose without any shared vocabulary at all."),
		makePage("4", "Delta Memo", "Final chunk of prose, again with nothing in common."),
	}

	groups := groupPages(pages)
	if len(groups) != 1 {
		t.Fatalf("expected a single general group, got %d: %v", len(groups), groupNames(groups))
	}
	helpers.AssertEqual(t, "General Documentation", groups[0].Name)
	helpers.AssertEqual(t, 4, len(groups[0].Pages))
}

func TestGroupPagesMixedLeftovers(t *testing.T) {
	pages := []confluence.Page{
		makePage("1", "Database Schema", "Tables and their relations for the main store."),
		makePage("2", "Database Backups", "Nightly snapshots are kept for thirty days."),
		makePage("3", "Oncall Handbook", "Escalation steps for paging the right crew."),
		makePage("4", "Holiday Plan", "Rotations around the end of year break."),
	}

	groups := groupPages(pages)
	if len(groups) != 2 {
		t.Fatalf("expected database + general groups, got %v", groupNames(groups))
	}
	helpers.AssertEqual(t, "Database Documentation", groups[0].Name)
	helpers.AssertEqual(t, "General Documentation", groups[1].Name)
	helpers.AssertEqual(t, 2, len(groups[1].Pages))
}

func TestExtractTopicKeywords(t *testing.T) {
	pages := []confluence.Page{
		makePage("1", "API Design Review", "body"),
		makePage("2", "Payment Flows", "body"),
		makePage("3", "Payment Limits", "body"),
	}

	keywords := extractTopicKeywords(pages)

	// Known markers first (list order), then title words shared twice.
	wantFirst := []string{"api", "design"}
	for i, want := range wantFirst {
		if i >= len(keywords) || keywords[i] != want {
			t.Fatalf("expected keyword %q at %d, got %v", want, i, keywords)
		}
	}
	if !contains(keywords, "payment") {
		t.Errorf("expected shared title word 'payment' in %v", keywords)
	}
	if len(keywords) > 5 {
		t.Errorf("keywords not capped at 5: %v", keywords)
	}
}

func TestCombinePageContents(t *testing.T) {
	pages := []confluence.Page{
		makePage("1", "First", "  first body  "),
		makePage("2", "Second", "second body"),
	}

	combined := combinePageContents(pages)
	want := "=== First ===\nfirst body\n\n=== Second ===\nsecond body"
	helpers.AssertEqual(t, want, combined)
}

func groupNames(groups []PageGroup) []string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

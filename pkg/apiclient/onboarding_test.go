package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newOnboardingServer(t *testing.T, accountStatus int, accountBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/account":
			w.WriteHeader(accountStatus)
			w.Write([]byte(accountBody))
		case "/api/auth/refresh":
			json.NewEncoder(w).Encode(map[string]string{"token": "refreshed-token"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestCanSubmitRequiresGrade(t *testing.T) {
	form := NewOnboardingForm(NewClient("http://localhost:8080", "token"))

	if form.CanSubmit() {
		t.Fatal("expected an untouched form unsubmittable")
	}

	form.SetGrade(10)
	if !form.CanSubmit() {
		t.Fatal("expected a graded form submittable")
	}

	form.SetGrade(0)
	if form.CanSubmit() {
		t.Fatal("expected clearing the grade to disable submission")
	}
}

func TestSubmitWithoutGradeIsRejected(t *testing.T) {
	form := NewOnboardingForm(NewClient("http://localhost:8080", "token"))

	if err := form.Submit(context.Background()); !errors.Is(err, ErrNotSubmittable) {
		t.Fatalf("expected ErrNotSubmittable, got %v", err)
	}
}

func TestSubmitSuccessRefreshesToken(t *testing.T) {
	server := newOnboardingServer(t, http.StatusCreated, `{"data":{"id":"user-1"}}`)
	defer server.Close()

	client := NewClient(server.URL, "stale-token")
	form := NewOnboardingForm(client)
	form.SetGrade(10)
	form.SetLabels([]string{"biomed"})

	if err := form.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.Token != "refreshed-token" {
		t.Fatalf("expected the session token refreshed after onboarding, got %q", client.Token)
	}
	if form.Err() != "" {
		t.Fatalf("expected no error message, got %q", form.Err())
	}
	if form.IsLoading() {
		t.Fatal("expected the loading flag cleared")
	}
}

func TestSubmitSurfacesBusinessErrors(t *testing.T) {
	server := newOnboardingServer(t, http.StatusConflict, `{"error":"account already exists"}`)
	defer server.Close()

	client := NewClient(server.URL, "token")
	form := NewOnboardingForm(client)
	form.SetGrade(10)

	if err := form.Submit(context.Background()); err == nil {
		t.Fatal("expected the rejection surfaced")
	}
	if form.Err() != "account already exists" {
		t.Fatalf("expected the server message shown, got %q", form.Err())
	}
	if client.Token != "token" {
		t.Fatalf("expected the token untouched on failure, got %q", client.Token)
	}
	if !form.CanSubmit() {
		t.Fatal("expected the form submittable again for a retry")
	}
}

func TestSubmitDegradesTransportErrors(t *testing.T) {
	server := newOnboardingServer(t, http.StatusCreated, `{}`)
	server.Close() // connection refused from here on

	form := NewOnboardingForm(NewClient(server.URL, "token"))
	form.SetGrade(10)

	if err := form.Submit(context.Background()); err == nil {
		t.Fatal("expected a transport error")
	}
	if form.Err() != "An unknown error occurred." {
		t.Fatalf("expected the generic message, got %q", form.Err())
	}
}

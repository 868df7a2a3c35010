package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthavgonda/timetable-gateway/internal/models"
	appErrors "github.com/arthavgonda/timetable-gateway/pkg/errors"
)

func newTestClient(handler http.Handler, observe RequestObserver) (*Client, func()) {
	srv := httptest.NewServer(handler)
	client := NewClient(ClientConfig{BaseURL: srv.URL, Observe: observe})
	return client, srv.Close
}

func TestClientGenerate(t *testing.T) {
	var gotQuery map[string][]string
	client, closeSrv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"task_id":"abc123"}`)) //nolint:errcheck
	}), nil)
	defer closeSrv()

	resp, err := client.Generate(context.Background(), GenerateParams{
		Date: "02-03-2026", Course: "BTech", Semester: "4",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.TaskID)
	assert.Empty(t, resp.Error)
	assert.Equal(t, []string{"02-03-2026"}, gotQuery["date"])
	assert.Equal(t, []string{"true"}, gotQuery["async_mode"])
}

func TestClientGenerateCarriesRejectionField(t *testing.T) {
	client, closeSrv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"no sections configured"}`)) //nolint:errcheck
	}), nil)
	defer closeSrv()

	resp, err := client.Generate(context.Background(), GenerateParams{Date: "02-03-2026"})
	require.NoError(t, err)
	assert.Empty(t, resp.TaskID)
	assert.Equal(t, "no sections configured", resp.Error)
}

func TestClientTaskStatus(t *testing.T) {
	client, closeSrv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/task/abc123", r.URL.Path)
		w.Write([]byte(`{"status":"running","progress":60,"message":"resolving clashes"}`)) //nolint:errcheck
	}), nil)
	defer closeSrv()

	status, err := client.TaskStatus(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, status.Status)
	assert.Equal(t, 60, status.Progress)
	assert.Equal(t, "resolving clashes", status.Message)
	assert.Nil(t, status.Result)
}

func TestClientTimetableDecodesSentinels(t *testing.T) {
	payload := `{
		"timetable": {
			"CSE-A": {
				"Monday": {
					"8:00-9:00": {"subject": "Maths", "teacher": "Dr. Rao", "room": "R101"},
					"9:00-10:00": {"subject": "Open Elective", "teacher": "respective teacher", "room": "R103"},
					"1:00-2:00": {"subject": "Lunch"}
				}
			}
		},
		"date": "02-03-2026",
		"end_date": "07-03-2026"
	}`
	client, closeSrv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/timetable/02-03-2026", r.URL.Path)
		w.Write([]byte(payload)) //nolint:errcheck
	}), nil)
	defer closeSrv()

	timetable, err := client.Timetable(context.Background(), "02-03-2026")
	require.NoError(t, err)
	assert.Equal(t, "02-03-2026", timetable.Date)

	monday := timetable.Schedule["CSE-A"]["Monday"]
	require.NotNil(t, monday["8:00-9:00"])
	assert.True(t, monday["8:00-9:00"].IsClass())
	assert.Equal(t, "Dr. Rao", monday["8:00-9:00"].Teacher.Name)
	assert.True(t, monday["9:00-10:00"].Teacher.Elective)
	assert.Equal(t, models.SlotLunch, monday["1:00-2:00"].Kind)
}

func TestClientTeacherAvailability(t *testing.T) {
	client, closeSrv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/teacher_availability", r.URL.Path)
		w.Write([]byte(`{"Dr. Rao": true, "Dr. Menon": false}`)) //nolint:errcheck
	}), nil)
	defer closeSrv()

	availability, err := client.TeacherAvailability(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"Dr. Rao": true, "Dr. Menon": false}, availability)
}

func TestClientNon2xxBecomesUpstreamError(t *testing.T) {
	client, closeSrv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}), nil)
	defer closeSrv()

	_, err := client.Classrooms(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUpstreamUnavailable.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "500")
}

func TestClientConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: time.Second})

	_, err := client.TaskStatus(context.Background(), "abc123")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstreamUnavailable.Code, appErrors.FromError(err).Code)
}

func TestClientObserverSeesEveryRoundTrip(t *testing.T) {
	type observation struct {
		endpoint string
		status   int
	}
	var seen []observation
	client, closeSrv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`)) //nolint:errcheck
	}), func(endpoint string, status int, duration time.Duration) {
		seen = append(seen, observation{endpoint, status})
	})
	defer closeSrv()

	_, err := client.TaskStatus(context.Background(), "abc123")
	require.NoError(t, err)
	_, err = client.TeacherAvailability(context.Background())
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, observation{"task_status", http.StatusOK}, seen[0])
	assert.Equal(t, observation{"teacher_availability", http.StatusOK}, seen[1])
}

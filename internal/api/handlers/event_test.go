package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dlane/event-checkin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		request        map[string]string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful creation",
			request: map[string]string{
				"name":       "Team Offsite",
				"password":   "secret",
				"location":   "Building 7",
				"csvContent": "Name,ID\nJane Doe,42\nBob Smith,43",
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result testutil.CreateEventResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.True(t, result.Success)
				assert.NotZero(t, result.EventID)
				assert.Equal(t, 2, result.AttendeeCount)
				assert.Empty(t, result.CSVErrors)
			},
		},
		{
			name: "partial roster returns row errors alongside success",
			request: map[string]string{
				"name":       "Partial",
				"password":   "secret",
				"csvContent": "Name,ID\nJane Doe,42\nBob",
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result testutil.CreateEventResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, 1, result.AttendeeCount)
				require.Len(t, result.CSVErrors, 1)
				assert.Equal(t, "Row 3: Column count mismatch (expected 2, got 1)", result.CSVErrors[0])
			},
		},
		{
			name: "missing fields",
			request: map[string]string{
				"name": "No Password",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "empty csv",
			request: map[string]string{
				"name":       "Empty",
				"password":   "secret",
				"csvContent": "   ",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "no valid attendees",
			request: map[string]string{
				"name":       "Nobody",
				"password":   "secret",
				"csvContent": "Name\n\nBob,extra",
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result struct {
					Error     string   `json:"error"`
					CSVErrors []string `json:"csvErrors"`
				}
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, "No valid attendees found in CSV", result.Error)
				assert.NotEmpty(t, result.CSVErrors)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)

			resp := testutil.PostJSON(t, ts, "/events", tt.request, nil)
			defer resp.Body.Close()

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestEventHandler_ListAttendees(t *testing.T) {
	ts := testutil.NewTestServer(t)

	created := testutil.CreateEventViaAPI(t, ts, "Offsite", "secret", "Name\nZoe\nAdam")

	resp, err := http.Get(ts.APIURL(fmt.Sprintf("/events/%d/attendees", created.EventID)))
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result struct {
		Attendees []struct {
			ID        int64  `json:"id"`
			Name      string `json:"name"`
			CheckedIn bool   `json:"checkedIn"`
		} `json:"attendees"`
	}
	testutil.AssertJSONResponse(t, resp, &result)
	require.Len(t, result.Attendees, 2)
	assert.Equal(t, "Adam", result.Attendees[0].Name)
	assert.Equal(t, "Zoe", result.Attendees[1].Name)
	assert.False(t, result.Attendees[0].CheckedIn)
}

func TestEventHandler_ListAttendees_UnknownEvent(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.APIURL("/events/99999/attendees"))
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Event not found")
}

func TestEventHandler_SignIn(t *testing.T) {
	ts := testutil.NewTestServer(t)

	created := testutil.CreateEventViaAPI(t, ts, "Offsite", "secret", "Name\nJane Doe")

	var listing struct {
		Attendees []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"attendees"`
	}
	resp, err := http.Get(ts.APIURL(fmt.Sprintf("/events/%d/attendees", created.EventID)))
	require.NoError(t, err)
	testutil.AssertJSONResponse(t, resp, &listing)
	resp.Body.Close()
	require.Len(t, listing.Attendees, 1)
	attendeeID := listing.Attendees[0].ID

	signinPath := fmt.Sprintf("/events/%d/signin", created.EventID)

	t.Run("first sign-in", func(t *testing.T) {
		resp := testutil.PostJSON(t, ts, signinPath, map[string]int64{"attendeeId": attendeeID}, nil)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)
		var result struct {
			Success         bool   `json:"success"`
			AttendeeName    string `json:"attendeeName"`
			AlreadySignedIn bool   `json:"alreadySignedIn"`
		}
		testutil.AssertJSONResponse(t, resp, &result)
		assert.True(t, result.Success)
		assert.Equal(t, "Jane Doe", result.AttendeeName)
		assert.False(t, result.AlreadySignedIn)
	})

	t.Run("repeat sign-in is flagged but recorded", func(t *testing.T) {
		resp := testutil.PostJSON(t, ts, signinPath, map[string]int64{"attendeeId": attendeeID}, nil)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)
		var result struct {
			Success         bool   `json:"success"`
			AlreadySignedIn bool   `json:"alreadySignedIn"`
			Message         string `json:"message"`
		}
		testutil.AssertJSONResponse(t, resp, &result)
		assert.True(t, result.Success)
		assert.True(t, result.AlreadySignedIn)
		assert.NotEmpty(t, result.Message)
	})

	t.Run("missing attendee id", func(t *testing.T) {
		resp := testutil.PostJSON(t, ts, signinPath, map[string]string{}, nil)
		defer resp.Body.Close()

		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Attendee ID required")
	})

	t.Run("unknown attendee", func(t *testing.T) {
		resp := testutil.PostJSON(t, ts, signinPath, map[string]int64{"attendeeId": 99999}, nil)
		defer resp.Body.Close()

		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Attendee not found")
	})
}

func TestCSRFProtection(t *testing.T) {
	ts := testutil.NewTestServer(t)

	body, _ := json.Marshal(map[string]string{
		"name":       "Offsite",
		"password":   "secret",
		"csvContent": "Name\nJane",
	})

	tests := []struct {
		name           string
		origin         string
		expectedStatus int
	}{
		{
			name:           "missing origin",
			origin:         "",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "cross-site origin",
			origin:         "https://evil.example.com",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "same origin",
			origin:         ts.BaseURL(),
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)

			req, err := http.NewRequest(http.MethodPost, ts.APIURL("/events"), bytes.NewBuffer(body))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
		})
	}

	t.Run("safe methods pass without origin", func(t *testing.T) {
		resp, err := http.Get(ts.BaseURL() + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)
	})
}

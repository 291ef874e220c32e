package cgv

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShowtimesUrl(t *testing.T) {
	client, err := NewClient(ClientOptions{})
	require.NoError(t, err)

	require.Equal(
		t,
		"http://www.cgv.co.kr/common/showtimes/iframeTheater.aspx?theatercode=0013&date=20220101",
		client.ShowtimesUrl("0013", "20220101"),
	)
	// dates are not validated, only escaped
	require.Equal(
		t,
		"http://www.cgv.co.kr/common/showtimes/iframeTheater.aspx?theatercode=0013&date=2022-01-01+x",
		client.ShowtimesUrl("0013", "2022-01-01 x"),
	)
}

func TestNewClientRejectsNegativeOptions(t *testing.T) {
	_, err := NewClient(ClientOptions{Timeout: -time.Second})
	require.Error(t, err)
	_, err = NewClient(ClientOptions{RetryCount: -1})
	require.Error(t, err)
}

func TestFetchShowtimes(t *testing.T) {
	var received *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r
		io.WriteString(w, showtimesPage)
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	body, err := client.FetchShowtimes(context.Background(), "0013", "20220101")
	require.NoError(t, err)
	require.Equal(t, showtimesPage, body)

	require.NotNil(t, received)
	require.Equal(t, http.MethodGet, received.Method)
	require.Equal(t, "/common/showtimes/iframeTheater.aspx", received.URL.Path)
	require.Equal(t, "0013", received.URL.Query().Get("theatercode"))
	require.Equal(t, "20220101", received.URL.Query().Get("date"))
	require.Equal(t, UserAgent, received.Header.Get("User-Agent"))
}

func TestFetchShowtimesStatus(t *testing.T) {
	statuses := []int{
		http.StatusBadRequest,
		http.StatusForbidden,
		http.StatusNotFound,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
	}
	for _, status := range statuses {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(status), status)
		}))

		client, err := NewClient(ClientOptions{BaseUrl: server.URL})
		require.NoError(t, err)

		body, err := client.FetchShowtimes(context.Background(), "0013", "20220101")
		server.Close()

		require.Empty(t, body)
		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr), status)
		require.Equal(t, status, fetchErr.StatusCode)
		require.Equal(t, client.ShowtimesUrl("0013", "20220101"), fetchErr.Url)
	}
}

func TestFetchShowtimesTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client, err := NewClient(ClientOptions{
		BaseUrl: server.URL,
		Timeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = client.FetchShowtimes(context.Background(), "0013", "20220101")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Zero(t, fetchErr.StatusCode)
	require.Error(t, fetchErr.Err)
}

func TestFetchShowtimesConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseUrl := server.URL
	server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: baseUrl})
	require.NoError(t, err)

	_, err = client.FetchShowtimes(context.Background(), "0013", "20220101")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Zero(t, fetchErr.StatusCode)
}

func TestFetchShowtimesRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, "<html></html>")
	}))
	defer server.Close()

	t.Run("no retry by default", func(t *testing.T) {
		atomic.StoreInt32(&calls, 0)
		client, err := NewClient(ClientOptions{BaseUrl: server.URL})
		require.NoError(t, err)

		_, err = client.FetchShowtimes(context.Background(), "0013", "20220101")
		require.Error(t, err)
		require.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})

	t.Run("configured retry", func(t *testing.T) {
		atomic.StoreInt32(&calls, 0)
		client, err := NewClient(ClientOptions{BaseUrl: server.URL, RetryCount: 2})
		require.NoError(t, err)
		client.Http.SetRetryWaitTime(time.Millisecond)

		body, err := client.FetchShowtimes(context.Background(), "0013", "20220101")
		require.NoError(t, err)
		require.Equal(t, "<html></html>", body)
		require.EqualValues(t, 2, atomic.LoadInt32(&calls))
	})
}

func TestFetchShowtimesCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.FetchShowtimes(ctx, "0013", "20220101")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

package cron

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSendAllRunsEveryJob(t *testing.T) {
	var calls int32
	jobs := make([]func() error, 0, 8)
	for i := 0; i < 8; i++ {
		jobs = append(jobs, func() error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
	}

	sendAll(jobs)

	if got := atomic.LoadInt32(&calls); got != 8 {
		t.Errorf("expected 8 jobs to run, got %d", got)
	}
}

func TestSendAllFinishesWhenManyJobsFail(t *testing.T) {
	var calls int32
	jobs := make([]func() error, 0, 25)
	for i := 0; i < 25; i++ {
		jobs = append(jobs, func() error {
			atomic.AddInt32(&calls, 1)
			return errors.New("smtp unavailable")
		})
	}

	done := make(chan struct{})
	go func() {
		sendAll(jobs)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sendAll did not finish with 25 failing jobs")
	}

	if got := atomic.LoadInt32(&calls); got != 25 {
		t.Errorf("expected 25 jobs to run, got %d", got)
	}
}

func TestSendAllEmptyJobList(t *testing.T) {
	sendAll(nil)
}

package controller

import (
	"testing"
	"time"
)

func TestDepthLimitTriggersExit(t *testing.T) {
	c := New()
	c.Begin(Limits{Depth: 3}, true, 0)
	for d := 1; d <= 3; d++ {
		if c.ExitCondition(d) {
			t.Fatalf("ExitCondition(%d) fired before depth exceeded the limit", d)
		}
	}
	if !c.ExitCondition(4) {
		t.Error("ExitCondition(4) did not fire after exceeding Depth: 3")
	}
}

func TestInfiniteHasNoDeadline(t *testing.T) {
	c := New()
	c.Begin(Limits{Infinite: true}, true, 0)
	if c.ExitCondition(1) {
		t.Error("infinite search should not exit on its own")
	}
}

func TestMoveTimeExpiresPromptly(t *testing.T) {
	c := New()
	c.Begin(Limits{MoveTime: 5 * time.Millisecond}, true, 0)
	time.Sleep(10 * time.Millisecond)
	if !c.ExitCondition(1) {
		t.Error("ExitCondition did not fire after MoveTime elapsed")
	}
}

func TestStopForcesImmediateExit(t *testing.T) {
	c := New()
	c.Begin(Limits{Infinite: true}, true, 0)
	c.Stop()
	if !c.ExitCondition(1) {
		t.Error("ExitCondition did not fire after Stop")
	}
}

func TestQuitIsPermanent(t *testing.T) {
	c := New()
	c.Begin(Limits{Infinite: true}, true, 0)
	c.Quit()
	if !c.ExitCondition(1) {
		t.Error("ExitCondition did not fire after Quit")
	}
	c.Begin(Limits{Infinite: true}, true, 0)
	if !c.ExitCondition(1) {
		t.Error("a search begun after Quit should still exit immediately")
	}
}

func TestClockBasedDeadlineLeavesSomeTime(t *testing.T) {
	c := New()
	c.Begin(Limits{WhiteTime: time.Second, MovesToGo: 1}, true, 0)
	if c.ExitCondition(1) {
		t.Error("a fresh one-second allocation should not exit immediately")
	}
}

func TestSearchingReflectsLifecycle(t *testing.T) {
	c := New()
	if c.Searching() {
		t.Fatal("new Controller should not report Searching")
	}
	c.Begin(Limits{Infinite: true}, true, 0)
	if !c.Searching() {
		t.Error("Searching should be true after Begin")
	}
	c.Finish()
	if c.Searching() {
		t.Error("Searching should be false after Finish")
	}
}

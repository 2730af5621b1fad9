package connect_test

import (
	"fmt"
	"time"

	"github.com/on-the-ground/effect_ive_connect/effects/action"
	"github.com/on-the-ground/effect_ive_connect/effects/connect"
	"github.com/on-the-ground/effect_ive_connect/effects/future"
)

// effectModule mixes state with one async and one sync effect method.
type effectModule struct {
	Count   int
	Message string
}

func (m *effectModule) Delay(input future.Future[int]) future.Future[action.Action[string]] {
	return future.Then(input, func(i int) action.Action[string] {
		return action.Of("delay", fmt.Sprintf("hello %d!", i))
	})
}

func (m *effectModule) SetMessage(a action.Action[time.Time]) action.Action[int] {
	return action.Of("set-message", a.Must().Nanosecond()/int(time.Millisecond))
}

type connectedModule struct {
	Delay      connect.Adapted[int, string]
	SetMessage connect.Adapted[time.Time, int]
}

var stamp = time.Date(2024, time.March, 1, 12, 30, 15, 678*int(time.Millisecond), time.UTC)

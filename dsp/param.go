package dsp

import (
	"math"
	"sort"
)

type eventKind int

const (
	eventSet eventKind = iota
	eventRamp
	eventTarget
)

// event is one scheduled change on a Param.
type event struct {
	kind  eventKind
	time  float64 // when the event lands (end of a ramp, start of a target)
	value float64 // value reached, or approached for a target
	tau   float64 // target time constant, seconds

	// ramps remember where they start from so evaluation is stateless.
	fromTime  float64
	fromValue float64
}

// Param is a value automated over a clock in seconds.
//
// Changes are scheduled ahead of time and evaluated with At as the clock
// moves forward. At must be called with non-decreasing times. A Param is not
// safe for concurrent use.
type Param struct {
	value float64 // value at the last evaluated time
	now   float64 // last evaluated time

	events []event

	// active exponential approach, if any.
	target     *event
	targetFrom float64
}

// NewParam returns a Param resting at value.
func NewParam(value float64) *Param {
	return &Param{value: value}
}

// Value returns the value at the last evaluated time.
func (p *Param) Value() float64 {
	return p.value
}

// Pending returns the number of scheduled events not yet reached.
func (p *Param) Pending() int {
	return len(p.events)
}

// SetValueAt jumps to value at time t.
func (p *Param) SetValueAt(value, t float64) {
	p.insert(event{kind: eventSet, time: t, value: value})
}

// LinearRampTo moves linearly from the previous scheduled event (or the
// current value when nothing is scheduled) to value, arriving at t.
func (p *Param) LinearRampTo(value, t float64) {
	fromTime, fromValue := p.now, p.value

	if n := len(p.events); n > 0 {
		last := p.events[n-1]
		fromTime, fromValue = last.time, last.value

		if last.kind == eventTarget {
			// targets never land on their value, start from where we are.
			fromValue = p.value
		}
	}

	p.insert(event{
		kind:      eventRamp,
		time:      t,
		value:     value,
		fromTime:  fromTime,
		fromValue: fromValue,
	})
}

// SetTargetAt starts an exponential approach toward target at time t with the
// time constant tau, in seconds. The approach runs until a later event lands.
func (p *Param) SetTargetAt(target, t, tau float64) {
	if tau <= 0 {
		p.SetValueAt(target, t)
		return
	}

	p.insert(event{kind: eventTarget, time: t, value: target, tau: tau})
}

// CancelScheduled drops every event landing at or after t. The value held at
// the last evaluated time is kept.
func (p *Param) CancelScheduled(t float64) {
	kept := p.events[:0]
	for _, ev := range p.events {
		if ev.time < t {
			kept = append(kept, ev)
		}
	}
	p.events = kept

	if p.target != nil && p.target.time >= t {
		p.target = nil
	}
}

// At advances the Param to time t and returns its value there.
func (p *Param) At(t float64) float64 {
	if t < p.now {
		t = p.now
	}
	p.now = t

	for len(p.events) > 0 && p.events[0].time <= t {
		ev := p.events[0]
		p.events = p.events[1:]

		switch ev.kind {
		case eventSet, eventRamp:
			p.value = ev.value
			p.target = nil

		case eventTarget:
			if p.target != nil {
				p.value = approach(p.target.value, p.targetFrom, p.target.tau, ev.time-p.target.time)
			}

			p.target = &ev
			p.targetFrom = p.value
		}
	}

	if len(p.events) > 0 && p.events[0].kind == eventRamp {
		ev := p.events[0]

		if t >= ev.fromTime {
			p.target = nil
			p.value = ramp(ev, t)
			return p.value
		}
	}

	if p.target != nil {
		p.value = approach(p.target.value, p.targetFrom, p.target.tau, t-p.target.time)
	}

	return p.value
}

// insert keeps events ordered by time, later insertions landing after
// earlier ones sharing the same time.
func (p *Param) insert(ev event) {
	idx := sort.Search(len(p.events), func(i int) bool {
		return p.events[i].time > ev.time
	})

	p.events = append(p.events, event{})
	copy(p.events[idx+1:], p.events[idx:])
	p.events[idx] = ev
}

func ramp(ev event, t float64) float64 {
	span := ev.time - ev.fromTime
	if span <= 0 {
		return ev.value
	}

	return ev.fromValue + (ev.value-ev.fromValue)*(t-ev.fromTime)/span
}

func approach(target, from, tau, elapsed float64) float64 {
	if elapsed <= 0 {
		return from
	}

	return target + (from-target)*math.Exp(-elapsed/tau)
}

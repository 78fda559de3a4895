package scene

// MaxScars bounds the scar log; inserting past capacity evicts the oldest.
const MaxScars = 8

// Scar is the decaying memory of one presence event. It shows up twice in
// the output: as a cavity in the distance field and as a tinted highlight
// in the shading.
type Scar struct {
	Seed   uint32
	Energy float64 // [0,1] at creation, faded by age at evaluation time
	Age    float64 // seconds since creation
	MaxAge float64 // seconds until removal
}

// Fade is the remaining strength in [0,1]; zero once expired.
func (s Scar) Fade() float64 {
	if s.MaxAge <= 0 || s.Age >= s.MaxAge {
		return 0
	}
	return 1 - s.Age/s.MaxAge
}

// ScarLog is a bounded FIFO of scars, owned by the driver and aged once
// per tick.
type ScarLog struct {
	scars []Scar
}

// NewScarLog returns an empty log.
func NewScarLog() *ScarLog {
	return &ScarLog{scars: make([]Scar, 0, MaxScars)}
}

// Add appends a scar, evicting the oldest entry at capacity.
func (l *ScarLog) Add(s Scar) {
	if len(l.scars) >= MaxScars {
		copy(l.scars, l.scars[1:])
		l.scars = l.scars[:MaxScars-1]
	}
	l.scars = append(l.scars, s)
}

// Age advances every scar by dt and drops the ones past MaxAge.
func (l *ScarLog) Age(dt float64) {
	kept := l.scars[:0]
	for _, s := range l.scars {
		s.Age += dt
		if s.Age < s.MaxAge {
			kept = append(kept, s)
		}
	}
	l.scars = kept
}

// Live returns the current scars, oldest first. The slice is only valid
// until the next Add or Age call.
func (l *ScarLog) Live() []Scar {
	return l.scars
}

// Len reports the number of live scars.
func (l *ScarLog) Len() int {
	return len(l.scars)
}

package keys

import "fmt"

// Source is a non-blocking keyboard device: KeyAvailable reports whether a
// raw code is buffered and ReadKey consumes one.
type Source interface {
	KeyAvailable() bool
	ReadKey() (int, error)
}

// Poll drains every buffered key from src in press order. It never blocks
// waiting for a first key; an idle device yields an empty slice.
func Poll(src Source) ([]Code, error) {
	if src == nil {
		return nil, ErrNoSource
	}

	out := []Code{}
	for src.KeyAvailable() {
		raw, err := src.ReadKey()
		if err != nil {
			return out, fmt.Errorf("read key: %w", err)
		}

		if IsExtendedSentinel(raw) {
			b, err := src.ReadKey()
			if err != nil {
				return out, fmt.Errorf("read extended key: %w", err)
			}
			out = append(out, NormalizeExtended(raw, b))
			continue
		}
		out = append(out, NormalizeASCII(raw))
	}
	return out, nil
}

// Queue is an in-memory Source. Backends that receive keys as events push
// raw codes here and the poller drains them on the next tick.
type Queue struct {
	raw []int
}

// Push appends raw codes exactly as a console input device would deliver them.
func (q *Queue) Push(raw ...int) {
	q.raw = append(q.raw, raw...)
}

// PushCode encodes c back into the raw protocol: extended codes become a
// sentinel pair, plain codes a single byte.
func (q *Queue) PushCode(c Code) {
	if c.IsExtended() {
		q.raw = append(q.raw, SentinelExtended, int(c&^ExtendedFlag))
		return
	}
	q.raw = append(q.raw, int(c))
}

// Len returns the number of raw codes still buffered.
func (q *Queue) Len() int { return len(q.raw) }

func (q *Queue) KeyAvailable() bool { return len(q.raw) > 0 }

// ReadKey returns the oldest buffered raw code. Reading from an empty queue
// returns 0, matching a device that reports no key.
func (q *Queue) ReadKey() (int, error) {
	if len(q.raw) == 0 {
		return 0, nil
	}
	k := q.raw[0]
	q.raw = q.raw[1:]
	if len(q.raw) == 0 {
		q.raw = nil
	}
	return k, nil
}

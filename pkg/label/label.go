package label

import "strconv"

const perPrefix = 100

// Allocator hands out branch target names. The first 2600 are the
// classic A0..Z99; after that the letter prefix grows (AA0, AB0, ...)
// instead of wrapping around.
type Allocator struct {
	next int
}

func (a *Allocator) New() string {
	n := a.next
	a.next++

	return prefix(n/perPrefix) + strconv.Itoa(n%perPrefix)
}

func (a *Allocator) Count() int {
	return a.next
}

// prefix renders n in bijective base 26: A..Z, AA..AZ, BA..
func prefix(n int) string {
	var buf []byte
	for {
		buf = append(buf, byte('A'+n%26))
		n = n/26 - 1
		if n < 0 {
			break
		}
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf)
}

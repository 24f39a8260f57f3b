package incremental

const (
	MinPrime = 101   // Smallest table capacity
	MaxPrime = 99991 // Largest table capacity
	MinID    = 1000  // Smallest accepted serial
	MaxID    = 9999  // Largest accepted serial
)

// IsPrime reports whether n is prime. Trial division up to n/2.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	for i := 2; i <= n/2; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// FindNextPrime returns the smallest prime that is not less than max(n, MinPrime). If there is no such prime below
// MaxPrime, MaxPrime is returned.
func FindNextPrime(n int) int {
	return nextPrime(n, MinPrime, MaxPrime)
}

func nextPrime(n, minPrime, maxPrime int) int {
	n = max(n, minPrime)
	for i := n; i < maxPrime; i++ {
		if IsPrime(i) {
			return i
		}
	}
	return maxPrime
}

package processor

import "math/rand/v2"

// IntN 返回 [0, n) 的随机整数，签名与 math/rand/v2.IntN 一致，测试可替换
type IntN func(n int) int

// DefaultIntN 进程级自动播种的非加密随机源，可并发调用
func DefaultIntN(n int) int {
	return rand.IntN(n)
}

func orDefault(intN IntN) IntN {
	if intN == nil {
		return DefaultIntN
	}
	return intN
}

// Shuffle 原地 Fisher–Yates 洗牌
func Shuffle[T any](items []T, intN IntN) {
	intN = orDefault(intN)
	for i := len(items) - 1; i > 0; i-- {
		j := intN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Sample 在副本上洗牌后取前 n 个，不修改入参
func Sample[T any](items []T, n int, intN IntN) []T {
	cp := make([]T, len(items))
	copy(cp, items)
	Shuffle(cp, intN)
	if n < len(cp) {
		cp = cp[:n]
	}
	return cp
}

// CoinFlip 50/50
func CoinFlip(intN IntN) bool {
	return orDefault(intN)(2) == 0
}

package xwlru

import (
	"testing"
)

func FuzzCache(f *testing.F) {
	// 种子语料：覆盖不同操作类型与权重
	f.Add("key1", 100, uint64(1), uint8(0))
	f.Add("", 0, uint64(0), uint8(1))
	f.Add("key2", -1, uint64(60), uint8(2))
	f.Add("key3", 42, uint64(61), uint8(0))
	f.Add("key4", 999, uint64(1<<63), uint8(3))
	f.Add("key5", 0, uint64(7), uint8(4))

	cache, err := New[string, int](Config{SoftLimit: 50, Slack: 10})
	if err != nil {
		f.Fatalf("New failed: %v", err)
	}

	f.Fuzz(func(t *testing.T, key string, value int, weight uint64, op uint8) {
		switch op % 6 {
		case 0:
			_ = cache.Set(key, value, weight)
		case 1:
			_, _ = cache.Get(key)
		case 2:
			_, _ = cache.Delete(key)
		case 3:
			cache.Contains(key)
		case 4:
			cache.Peek(key)
		case 5:
			_ = cache.Resize(weight%200, weight%30)
		}
		if cache.SoftLimit() != 0 && cache.Weight() > cache.HardLimit() {
			t.Fatalf("weight %d above hard limit %d", cache.Weight(), cache.HardLimit())
		}
	})
}

func FuzzNew(f *testing.F) {
	f.Add(uint64(0), uint64(0))
	f.Add(uint64(64), uint64(10))
	f.Add(^uint64(0), uint64(1))
	f.Add(uint64(1), ^uint64(0))

	f.Fuzz(func(t *testing.T, soft, slack uint64) {
		cache, err := New[string, int](Config{SoftLimit: soft, Slack: slack})
		if err != nil {
			return
		}
		// 基本操作不应 panic
		_ = cache.Set("k", 1, soft)
		_, _ = cache.Get("k")
		cache.Peek("k")
		cache.Keys()
		cache.FreeWeight()
		_, _ = cache.Delete("k")
		cache.Clear()
	})
}

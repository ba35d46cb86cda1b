package xwlru

// Stats 是缓存计数器的快照。
type Stats struct {
	// Hits 命中的读请求数（Get/TryGet）。
	Hits uint64
	// Misses 未命中的读请求数。
	Misses uint64
	// Inserts 成功新建的条目数。
	Inserts uint64
	// Updates 成功更新已有条目的次数。
	Updates uint64
	// Evictions 裁剪淘汰的条目数。
	Evictions uint64
	// Removals Delete 显式删除的条目数。
	Removals uint64
	// Rejections 因 ErrOversizedEntry 被拒绝的写入数。
	Rejections uint64
	// CallbackFailures 回调失败次数。
	CallbackFailures uint64
}

// HitRatio 返回命中率，无读请求时为 0。
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func (s Stats) add(o Stats) Stats {
	return Stats{
		Hits:             s.Hits + o.Hits,
		Misses:           s.Misses + o.Misses,
		Inserts:          s.Inserts + o.Inserts,
		Updates:          s.Updates + o.Updates,
		Evictions:        s.Evictions + o.Evictions,
		Removals:         s.Removals + o.Removals,
		Rejections:       s.Rejections + o.Rejections,
		CallbackFailures: s.CallbackFailures + o.CallbackFailures,
	}
}

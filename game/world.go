package game

// World 一个竞技场的权威状态：蛇 + 食物。不含任何网络与协程，
// 服务端房间在 Tick 线程里驱动它，客户端离线模式直接驱动它。
type World struct {
	Serpents map[string]*Serpent
	order    []string // 稳定迭代顺序（加入顺序），先命中者为准
	Foods    []*Food

	FoodTarget int

	foodSeq int64 // 本世界内的食物编号序列
}

// NewWorld 创建世界并铺满目标数量的普通食物
func NewWorld() *World {
	w := &World{
		Serpents:   make(map[string]*Serpent),
		FoodTarget: FoodTarget,
	}
	for i := 0; i < w.FoodTarget; i++ {
		w.Foods = append(w.Foods, w.newFood())
	}
	return w
}

// AddSerpent 放入（或替换）一条蛇。重生走这里：整体换引用，不在原对象上改字段。
func (w *World) AddSerpent(id string, s *Serpent) {
	if _, ok := w.Serpents[id]; !ok {
		w.order = append(w.order, id)
	}
	w.Serpents[id] = s
}

// RemoveSerpent 移除一条蛇（不触发掉落，掉落由调用方先 Kill）
func (w *World) RemoveSerpent(id string) {
	if _, ok := w.Serpents[id]; !ok {
		return
	}
	delete(w.Serpents, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Step 推进一个时间片。调用方负责把 dt 夹到 MaxStep 以内。
// 顺序固定：全部移动 → 边界 → 吃食 → 跨蛇碰撞 → 掉落。
// 碰撞读到的是"移动完成后、移除之前"的一致状态，结果与遍历顺序无关。
func (w *World) Step(dt float64) StepResult {
	var res StepResult

	// 1. 所有活蛇先完成移动与轨迹采样
	for _, id := range w.order {
		s := w.Serpents[id]
		if s.Dead {
			continue
		}
		s.Integrate(dt)
	}

	// 2. 边界：任一轴越界即死（两轴同时越界也只死一次），本 Tick 不再参与后续处理
	for _, id := range w.order {
		s := w.Serpents[id]
		if s.Dead {
			continue
		}
		if !InBounds(s.Head) {
			if ev := w.Kill(id, CauseWorldBorder, BorderLabel); ev != nil {
				res.Deaths = append(res.Deaths, *ev)
			}
		}
	}

	// 3. 吃食：按稳定顺序遍历，先命中者独占（移除立即生效，同一食物
	//    不可能被两条蛇在同一 Tick 吃到）
	for _, id := range w.order {
		s := w.Serpents[id]
		if s.Dead {
			continue
		}
		for i := 0; i < len(w.Foods); {
			f := w.Foods[i]
			if Dist(s.Head, f.Pos) < HeadRadius+f.Size {
				s.Eat(f)
				res.FoodsEaten++
				w.Foods = append(w.Foods[:i], w.Foods[i+1:]...)
				if !f.Super {
					// 普通食物 1:1 回补，总量统计上保持恒定
					w.Foods = append(w.Foods, w.newFood())
				}
				continue
			}
			i++
		}
	}

	// 4. 跨蛇碰撞：对每条活蛇的头，扫所有其他活蛇的抽样身体。
	//    先收集全部受害者再统一处理，避免任何处理顺序优势；
	//    同一 Tick 撞到多条身体时，最近的那个节点赢得击杀归属。
	type pendingKill struct {
		victim string
		killer string
	}
	var kills []pendingKill
	for _, vid := range w.order {
		victim := w.Serpents[vid]
		if victim.Dead {
			continue
		}
		bestDist2 := KillRadius * KillRadius
		bestKiller := ""
		for _, oid := range w.order {
			if oid == vid {
				continue // 不检查自撞
			}
			other := w.Serpents[oid]
			if other.Dead {
				continue
			}
			for _, seg := range other.SampledBody() {
				if d2 := Dist2(victim.Head, seg); d2 < bestDist2 {
					bestDist2 = d2
					bestKiller = other.Name
				}
			}
		}
		if bestKiller != "" {
			kills = append(kills, pendingKill{victim: vid, killer: bestKiller})
		}
	}
	for _, k := range kills {
		if ev := w.Kill(k.victim, CauseCollision, k.killer); ev != nil {
			res.Deaths = append(res.Deaths, *ev)
		}
	}

	// 5. 回补普通食物到目标数量（覆盖热更新调大目标的情况），每 Tick 限量
	w.maintainFood()

	return res
}

// Kill 杀死一条蛇并产出掉落。幂等：已死的蛇再调用是空操作，返回 nil。
// 每个抽样身体节点掉一个超级食物，把尸体质量转化为可争夺的高价值拾取。
func (w *World) Kill(id, cause, killerLabel string) *DeathEvent {
	s, ok := w.Serpents[id]
	if !ok || s.Dead {
		return nil
	}
	s.Dead = true
	body := s.SampledBody()
	for _, p := range body {
		w.Foods = append(w.Foods, w.newSuperFoodAt(p))
	}
	return &DeathEvent{
		PlayerID:      id,
		Name:          s.Name,
		At:            s.Head,
		Color:         s.Theme.Color,
		BodyColor:     s.Theme.BodyColor,
		SegmentCount:  len(body),
		BodyPositions: body,
		Cause:         cause,
		KillerLabel:   killerLabel,
		Score:         s.Score,
	}
}

// NormalFoodCount 当前普通食物数量（超级食物不计入目标）
func (w *World) NormalFoodCount() int {
	n := 0
	for _, f := range w.Foods {
		if !f.Super {
			n++
		}
	}
	return n
}

func (w *World) maintainFood() {
	deficit := w.FoodTarget - w.NormalFoodCount()
	if deficit > FoodSpawnPerTick {
		deficit = FoodSpawnPerTick
	}
	for i := 0; i < deficit; i++ {
		w.Foods = append(w.Foods, w.newFood())
	}
}

// Order 返回稳定迭代顺序（只读用）
func (w *World) Order() []string {
	return w.order
}

package router

import "testing"

// ==================== 路由解析 ====================

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		token string
		kind  ViewKind
		pid   string
	}{
		{"空令牌回列表", "", ViewList, ""},
		{"裸井号回列表", "#", ViewList, ""},
		{"显式列表", "#inventory", ViewList, ""},
		{"商品详情", "#product/42", ViewDetail, "42"},
		{"带连字符的 ID", "#product/p-1001", ViewDetail, "p-1001"},
		{"详情前缀但无 ID 回列表", "#product/", ViewList, ""},
		{"未知令牌回列表", "#bogus", ViewList, ""},
		{"无井号前缀也能识别", "inventory", ViewList, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Resolve(tt.token)
			if state.Kind != tt.kind {
				t.Errorf("Resolve(%q).Kind = %v, want %v", tt.token, state.Kind, tt.kind)
			}
			if state.ProductID != tt.pid {
				t.Errorf("Resolve(%q).ProductID = %q, want %q", tt.token, state.ProductID, tt.pid)
			}
		})
	}
}

// ==================== 导航代号 ====================

func TestNavigatorGeneration(t *testing.T) {
	nav := NewNavigator()

	_, gen0 := nav.Current()

	state, gen1 := nav.Go("#product/7")
	if state.Kind != ViewDetail || state.ProductID != "7" {
		t.Fatalf("Go() state = %+v, want detail/7", state)
	}
	if gen1 <= gen0 {
		t.Errorf("gen1 = %d, want > %d", gen1, gen0)
	}
	if !nav.IsCurrent(gen1) {
		t.Error("IsCurrent(gen1) = false, want true")
	}

	// 再次导航后旧代号即过期
	_, gen2 := nav.Go("#inventory")
	if nav.IsCurrent(gen1) {
		t.Error("IsCurrent(gen1) after second Go = true, want false")
	}
	if !nav.IsCurrent(gen2) {
		t.Error("IsCurrent(gen2) = false, want true")
	}

	cur, _ := nav.Current()
	if cur.Kind != ViewList {
		t.Errorf("Current().Kind = %v, want ViewList", cur.Kind)
	}
}

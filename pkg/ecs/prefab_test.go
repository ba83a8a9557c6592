package ecs

import "testing"

type testTagsComponent struct {
	Tags []string
}

func (c *testTagsComponent) Clone() interface{} {
	cp := &testTagsComponent{Tags: make([]string, len(c.Tags))}
	copy(cp.Tags, c.Tags)
	return cp
}

// TestSnapshot_IndependentCopy 测试模板与原实体互不影响
func TestSnapshot_IndependentCopy(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testPositionComponent{X: 10, Y: 20})

	prefab, ok := em.Snapshot(id)
	if !ok {
		t.Fatal("Snapshot should succeed for a live entity")
	}

	// 修改原实体不影响模板
	pos, _ := GetComponent[*testPositionComponent](em, id)
	pos.X = 999

	copyID, ok := em.Instantiate(prefab)
	if !ok {
		t.Fatal("Instantiate should succeed")
	}
	copyPos, ok := GetComponent[*testPositionComponent](em, copyID)
	if !ok {
		t.Fatal("Instance should carry the position component")
	}
	if copyPos.X != 10 {
		t.Errorf("Expected template X=10, got %f", copyPos.X)
	}
	if copyPos == pos {
		t.Error("Instance must not share component pointers with the original")
	}
}

// TestSnapshot_DeadEntity 测试已销毁实体无法生成模板
func TestSnapshot_DeadEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.DestroyEntity(id)

	if _, ok := em.Snapshot(id); ok {
		t.Error("Snapshot of a destroyed entity should fail")
	}
}

// TestInstantiate_Repeatable 测试模板可以多次实例化，且使用 Cloner
func TestInstantiate_Repeatable(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testTagsComponent{Tags: []string{"key"}})

	prefab, _ := em.Snapshot(id)
	if prefab.ComponentCount() != 1 {
		t.Fatalf("Expected 1 component, got %d", prefab.ComponentCount())
	}

	a, _ := em.Instantiate(prefab)
	b, _ := em.Instantiate(prefab)
	if a == b {
		t.Fatal("Each instantiation should create a new entity")
	}

	tagsA, _ := GetComponent[*testTagsComponent](em, a)
	tagsA.Tags[0] = "changed"
	tagsB, _ := GetComponent[*testTagsComponent](em, b)
	if tagsB.Tags[0] != "key" {
		t.Errorf("Cloner should deep copy slices, got %q", tagsB.Tags[0])
	}
}

// TestPrefab_Discard 测试释放后的模板不可用
func TestPrefab_Discard(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	prefab, _ := em.Snapshot(id)

	prefab.Discard()
	if prefab.Valid() {
		t.Error("Discarded prefab should be invalid")
	}
	if _, ok := em.Instantiate(prefab); ok {
		t.Error("Instantiate from a discarded prefab should fail")
	}

	var nilPrefab *Prefab
	if nilPrefab.Valid() {
		t.Error("nil prefab should be invalid")
	}
	nilPrefab.Discard()
}

package ecs

import "reflect"

// Cloner 可自定义复制逻辑的组件
// 组件内含切片、map 等引用字段时应实现此接口，否则使用浅复制
type Cloner interface {
	Clone() interface{}
}

// Prefab 实体模板
//
// 模板是从实体复制出的一组组件，从不插入 EntityManager，
// 因此不会被任何系统查询到，也不会被玩法逻辑销毁。
// 模板由持有者独占，可以多次 Instantiate。
type Prefab struct {
	components []interface{}
	discarded  bool
}

// Snapshot 复制实体当前的全部组件生成模板
// 实体不存在或已被标记删除时返回 nil, false
func (em *EntityManager) Snapshot(id EntityID) (*Prefab, bool) {
	if !em.IsAlive(id) {
		return nil, false
	}

	compMap := em.components[id]
	p := &Prefab{components: make([]interface{}, 0, len(compMap))}
	for _, comp := range compMap {
		p.components = append(p.components, cloneComponent(comp))
	}
	return p, true
}

// Instantiate 由模板创建新的存活实体
// 每个组件都会再复制一次，模板本身保持不变
func (em *EntityManager) Instantiate(p *Prefab) (EntityID, bool) {
	if !p.Valid() {
		return InvalidEntity, false
	}

	id := em.CreateEntity()
	for _, comp := range p.components {
		em.AddComponent(id, cloneComponent(comp))
	}
	return id, true
}

// Valid 检查模板是否可用
func (p *Prefab) Valid() bool {
	return p != nil && !p.discarded
}

// Discard 释放模板，之后 Valid 返回 false
func (p *Prefab) Discard() {
	if p == nil {
		return
	}
	p.components = nil
	p.discarded = true
}

// ComponentCount 返回模板中的组件数量
func (p *Prefab) ComponentCount() int {
	if !p.Valid() {
		return 0
	}
	return len(p.components)
}

// cloneComponent 复制单个组件
// 指针指向结构体时复制结构体值，其他类型原样返回
func cloneComponent(comp interface{}) interface{} {
	if c, ok := comp.(Cloner); ok {
		return c.Clone()
	}

	v := reflect.ValueOf(comp)
	if v.Kind() == reflect.Ptr && !v.IsNil() && v.Elem().Kind() == reflect.Struct {
		cp := reflect.New(v.Elem().Type())
		cp.Elem().Set(v.Elem())
		return cp.Interface()
	}
	return comp
}

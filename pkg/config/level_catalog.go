package config

import (
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"
	"sync"
)

// LevelCatalog 关卡目录
//
// 按 Order 排序保存全部关卡，支持按ID查找和查找下一关。
// 开发模式下 LevelWatcher 会在后台 goroutine 中替换关卡，所以读写都加锁；
// 关卡场景只在进入关卡时读取一次配置，进行中的关卡不受影响。
type LevelCatalog struct {
	mu     sync.RWMutex
	levels map[string]*LevelConfig
	order  []string
}

// NewLevelCatalog 由已解析的关卡创建目录
func NewLevelCatalog(levels ...*LevelConfig) *LevelCatalog {
	c := &LevelCatalog{levels: make(map[string]*LevelConfig)}
	for _, lvl := range levels {
		c.levels[lvl.ID] = lvl
	}
	c.reorder()
	return c
}

// LoadLevelCatalog 从文件系统目录加载全部 .yaml 关卡
// fsys 可以是 os.DirFS 或嵌入的资源
func LoadLevelCatalog(fsys fs.FS, dir string) (*LevelCatalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read level directory %s: %w", dir, err)
	}

	c := &LevelCatalog{levels: make(map[string]*LevelConfig)}
	for _, entry := range entries {
		if entry.IsDir() || !isLevelFile(entry.Name()) {
			continue
		}
		p := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read level file %s: %w", p, err)
		}
		lvl, err := ParseLevelConfig(data, p)
		if err != nil {
			return nil, err
		}
		if _, dup := c.levels[lvl.ID]; dup {
			return nil, fmt.Errorf("duplicate level ID %q in %s", lvl.ID, p)
		}
		c.levels[lvl.ID] = lvl
	}

	if len(c.levels) == 0 {
		return nil, fmt.Errorf("no level files found in %s", dir)
	}
	c.reorder()
	log.Printf("[LevelCatalog] Loaded %d levels from %s", len(c.levels), dir)
	return c, nil
}

func isLevelFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// reorder 按 Order、ID 重新排序（调用方持有写锁或处于构造阶段）
func (c *LevelCatalog) reorder() {
	c.order = c.order[:0]
	for id := range c.levels {
		c.order = append(c.order, id)
	}
	sort.Slice(c.order, func(i, j int) bool {
		a, b := c.levels[c.order[i]], c.levels[c.order[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
}

// Get 按ID查找关卡
func (c *LevelCatalog) Get(id string) (*LevelConfig, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lvl, ok := c.levels[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLevelNotFound, id)
	}
	return lvl, nil
}

// First 返回第一关
func (c *LevelCatalog) First() (*LevelConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.order) == 0 {
		return nil, false
	}
	return c.levels[c.order[0]], true
}

// Next 返回 id 之后的关卡，id 是最后一关时返回 false
func (c *LevelCatalog) Next(id string) (*LevelConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i, cur := range c.order {
		if cur == id && i+1 < len(c.order) {
			return c.levels[c.order[i+1]], true
		}
	}
	return nil, false
}

// IDs 返回按顺序排列的关卡ID
func (c *LevelCatalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Replace 替换或新增关卡（热加载使用）
func (c *LevelCatalog) Replace(lvl *LevelConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.levels[lvl.ID] = lvl
	c.reorder()
}

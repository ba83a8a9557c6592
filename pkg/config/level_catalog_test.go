package config

import (
	"errors"
	"testing"
	"testing/fstest"
)

func testCatalogFS() fstest.MapFS {
	return fstest.MapFS{
		"levels/bridge.yaml": {Data: []byte(bridgeYAML)},
		"levels/lab.yaml":    {Data: []byte("id: lab\nname: Lab\norder: 2\n")},
		"levels/vault.yml":   {Data: []byte("id: vault\nname: Vault\norder: 3\n")},
		"levels/README.md":   {Data: []byte("not a level")},
	}
}

// TestLoadLevelCatalog 测试从目录加载并按顺序排列
func TestLoadLevelCatalog(t *testing.T) {
	catalog, err := LoadLevelCatalog(testCatalogFS(), "levels")
	if err != nil {
		t.Fatalf("LoadLevelCatalog() failed: %v", err)
	}

	ids := catalog.IDs()
	want := []string{"bridge", "lab", "vault"}
	if len(ids) != len(want) {
		t.Fatalf("Expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, ids)
			break
		}
	}

	first, ok := catalog.First()
	if !ok || first.ID != "bridge" {
		t.Errorf("Expected first level bridge, got %+v", first)
	}

	next, ok := catalog.Next("bridge")
	if !ok || next.ID != "lab" {
		t.Errorf("Expected lab after bridge, got %+v", next)
	}
	if _, ok := catalog.Next("vault"); ok {
		t.Error("vault is the last level")
	}
}

// TestLevelCatalog_Get 测试查找不存在的关卡
func TestLevelCatalog_Get(t *testing.T) {
	catalog, _ := LoadLevelCatalog(testCatalogFS(), "levels")

	if _, err := catalog.Get("lab"); err != nil {
		t.Errorf("Get(lab) failed: %v", err)
	}
	_, err := catalog.Get("attic")
	if !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Expected ErrLevelNotFound, got %v", err)
	}
}

// TestLoadLevelCatalog_Errors 测试目录级错误
func TestLoadLevelCatalog_Errors(t *testing.T) {
	if _, err := LoadLevelCatalog(fstest.MapFS{}, "levels"); err == nil {
		t.Error("Expected error for a missing directory")
	}

	empty := fstest.MapFS{"levels/notes.txt": {Data: []byte("x")}}
	if _, err := LoadLevelCatalog(empty, "levels"); err == nil {
		t.Error("Expected error for a directory without levels")
	}

	dup := fstest.MapFS{
		"levels/a.yaml": {Data: []byte("id: same\nname: A\n")},
		"levels/b.yaml": {Data: []byte("id: same\nname: B\n")},
	}
	if _, err := LoadLevelCatalog(dup, "levels"); err == nil {
		t.Error("Expected error for duplicate level IDs")
	}
}

// TestLevelCatalog_Replace 测试替换后重新排序
func TestLevelCatalog_Replace(t *testing.T) {
	catalog, _ := LoadLevelCatalog(testCatalogFS(), "levels")

	catalog.Replace(&LevelConfig{ID: "lab", Name: "Lab v2", Order: 0})

	first, _ := catalog.First()
	if first.ID != "lab" || first.Name != "Lab v2" {
		t.Errorf("Expected replaced lab first, got %+v", first)
	}

	catalog.Replace(&LevelConfig{ID: "attic", Name: "Attic", Order: 9})
	if len(catalog.IDs()) != 4 {
		t.Errorf("Expected 4 levels, got %v", catalog.IDs())
	}
}

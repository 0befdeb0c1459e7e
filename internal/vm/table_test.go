package vm

import "testing"

func TestTableSetGet(t *testing.T) {
	vm := New()
	tbl := &Table{}
	key := vm.InternString("answer")

	isNew := tbl.Set(key, NumberVal(42))
	if !isNew {
		t.Fatal("first Set of a key should report isNew")
	}
	val, ok := tbl.Get(key)
	if !ok || val.Num != 42 {
		t.Fatalf("Get = %+v, %v, want 42, true", val, ok)
	}

	isNew = tbl.Set(key, NumberVal(43))
	if isNew {
		t.Fatal("overwriting an existing key should not report isNew")
	}
	val, _ = tbl.Get(key)
	if val.Num != 43 {
		t.Fatalf("Get after overwrite = %v, want 43", val.Num)
	}
}

func TestTableGetMissing(t *testing.T) {
	vm := New()
	tbl := &Table{}
	_, ok := tbl.Get(vm.InternString("nope"))
	if ok {
		t.Error("Get on an empty table should report not found")
	}
}

func TestTableDelete(t *testing.T) {
	vm := New()
	tbl := &Table{}
	key := vm.InternString("k")
	tbl.Set(key, NumberVal(1))

	if !tbl.Delete(key) {
		t.Fatal("Delete of a present key should report true")
	}
	if _, ok := tbl.Get(key); ok {
		t.Error("key should no longer be found after Delete")
	}
	if tbl.Delete(key) {
		t.Error("Delete of an absent key should report false")
	}
}

func TestTableGrowth(t *testing.T) {
	vm := New()
	tbl := &Table{}
	keys := make([]*ObjString, 0, 200)
	for i := 0; i < 200; i++ {
		k := vm.InternString(string(rune('a')) + string(rune(i)))
		keys = append(keys, k)
		tbl.Set(k, NumberVal(float64(i)))
	}
	for i, k := range keys {
		val, ok := tbl.Get(k)
		if !ok || val.Num != float64(i) {
			t.Fatalf("key %d: got %v, %v", i, val, ok)
		}
	}
}

func TestTableAppendAll(t *testing.T) {
	vm := New()
	src := &Table{}
	dst := &Table{}
	k1, k2 := vm.InternString("a"), vm.InternString("b")
	src.Set(k1, NumberVal(1))
	src.Set(k2, NumberVal(2))
	dst.Set(k1, NumberVal(99)) // dst already has k1 with a different value

	src.AppendAll(dst)

	if v, _ := dst.Get(k1); v.Num != 1 {
		t.Errorf("AppendAll should overwrite existing keys, got %v", v.Num)
	}
	if v, _ := dst.Get(k2); v.Num != 2 {
		t.Errorf("AppendAll should copy new keys, got %v", v.Num)
	}
}

func TestTableForEach(t *testing.T) {
	vm := New()
	tbl := &Table{}
	tbl.Set(vm.InternString("a"), NumberVal(1))
	tbl.Set(vm.InternString("b"), NumberVal(2))

	seen := map[string]float64{}
	tbl.ForEach(func(key *ObjString, val Value) {
		seen[key.Chars] = val.Num
	})
	if len(seen) != 2 || seen["a"] != 1 || seen["b"] != 2 {
		t.Errorf("ForEach visited %v", seen)
	}
}

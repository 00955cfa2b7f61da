package poolcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func writeCorrupt(dir string) error {
	return os.WriteFile(filepath.Join(dir, "solana_token_cache.json"), []byte("{not json"), 0o644)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func samplePool(id string) PoolInfo {
	return PoolInfo{
		PoolID:   id,
		Protocol: "SOLFI",
		PoolType: "AMM",
		Tokens: []TokenInfo{
			{Address: "MintA", Decimals: 6, Symbol: "unknown", Name: "unknown"},
			{Address: "MintB", Decimals: 9, Symbol: "unknown", Name: "unknown"},
		},
	}
}

func TestFirstWriterWins(t *testing.T) {
	c := New(t.TempDir(), testLogger())

	c.SetPool("PoolX", samplePool("PoolX"))
	second := samplePool("PoolX")
	second.Protocol = "RAYDIUM"
	c.SetPool("PoolX", second)

	got, ok := c.GetPool("PoolX")
	if !ok {
		t.Fatal("pool missing")
	}
	if got.Protocol != "SOLFI" {
		t.Fatalf("first write lost: %+v", got)
	}
}

func TestKeysAreCaseInsensitive(t *testing.T) {
	c := New(t.TempDir(), testLogger())

	c.SetToken("MiNtA", TokenInfo{Address: "MiNtA", Decimals: 6})
	if _, ok := c.GetToken("minta"); !ok {
		t.Fatal("lowercased lookup missed")
	}
	c.SetToken("MINTA", TokenInfo{Address: "MINTA", Decimals: 9})
	got, _ := c.GetToken("MintA")
	if got.Decimals != 6 {
		t.Fatalf("case-variant write overwrote entry: %+v", got)
	}
}

func TestPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	c := New(dir, testLogger())
	c.SetPool("PoolX", samplePool("PoolX"))
	c.SetToken("MintA", TokenInfo{Address: "MintA", Decimals: 6})

	reopened := New(dir, testLogger())
	if _, ok := reopened.GetPool("poolx"); !ok {
		t.Fatal("pool did not survive reload")
	}
	if _, ok := reopened.GetToken("minta"); !ok {
		t.Fatal("token did not survive reload")
	}
	if reopened.PoolCount() != 1 || reopened.TokenCount() != 1 {
		t.Fatalf("counts: %d/%d", reopened.PoolCount(), reopened.TokenCount())
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, testLogger())

	c.SetPool("PoolX", samplePool("PoolX"))
	c.RemovePool("POOLX")
	if _, ok := c.GetPool("PoolX"); ok {
		t.Fatal("pool not removed")
	}

	// A removed key may be written again.
	c.SetPool("PoolX", samplePool("PoolX"))
	if c.PoolCount() != 1 {
		t.Fatalf("count = %d", c.PoolCount())
	}
}

func TestLoadToleratesMissingAndCorruptFiles(t *testing.T) {
	dir := t.TempDir()

	c := New(dir, testLogger())
	if c.PoolCount() != 0 {
		t.Fatalf("fresh cache not empty: %d", c.PoolCount())
	}

	c.SetPool("PoolX", samplePool("PoolX"))
	// Corrupt the token file; the pool file must still load.
	if err := writeCorrupt(dir); err != nil {
		t.Fatal(err)
	}
	reopened := New(dir, testLogger())
	if reopened.PoolCount() != 1 {
		t.Fatal("pool cache lost after corrupt sibling file")
	}
	if reopened.TokenCount() != 0 {
		t.Fatal("corrupt token cache parsed")
	}
}

// Package poolcache persists pool and token metadata discovered while
// scanning, so repeated runs do not rediscover the same pools.
package poolcache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type TokenInfo struct {
	Address   string `json:"address"`
	Decimals  uint8  `json:"decimals"`
	ProgramID string `json:"programId"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
}

type PoolInfo struct {
	PoolID   string      `json:"poolId"`
	Tokens   []TokenInfo `json:"tokens"`
	Factory  string      `json:"factory"`
	Protocol string      `json:"protocol"`
	PoolType string      `json:"poolType"`
}

// Cache is keyed by lowercased address. Writes follow first-writer-wins:
// an existing entry is never overwritten, so concurrent discoveries and
// re-runs stay idempotent. Persistence is advisory; load and save
// failures are logged and ignored.
type Cache struct {
	mu        sync.Mutex
	poolFile  string
	tokenFile string
	pools     map[string]PoolInfo
	tokens    map[string]TokenInfo
	log       *logrus.Logger
}

func New(dataDir string, log *logrus.Logger) *Cache {
	c := &Cache{
		poolFile:  filepath.Join(dataDir, "solana_pool_cache.json"),
		tokenFile: filepath.Join(dataDir, "solana_token_cache.json"),
		pools:     make(map[string]PoolInfo),
		tokens:    make(map[string]TokenInfo),
		log:       log,
	}
	c.loadFile(c.poolFile, &c.pools)
	c.loadFile(c.tokenFile, &c.tokens)
	return c
}

func (c *Cache) loadFile(path string, dst interface{}) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.WithField("file", path).Warnf("failed to load cache: %v", err)
		}
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.log.WithField("file", path).Warnf("failed to parse cache: %v", err)
	}
}

func (c *Cache) saveFile(path string, src interface{}) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		c.log.WithField("file", path).Warnf("failed to create cache dir: %v", err)
		return
	}
	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		c.log.WithField("file", path).Warnf("failed to encode cache: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.log.WithField("file", path).Warnf("failed to save cache: %v", err)
	}
}

func (c *Cache) SetPool(key string, info PoolInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := strings.ToLower(key)
	if _, ok := c.pools[k]; ok {
		return
	}
	c.pools[k] = info
	c.saveFile(c.poolFile, c.pools)
}

func (c *Cache) GetPool(key string) (PoolInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, ok := c.pools[strings.ToLower(key)]
	return info, ok
}

func (c *Cache) SetToken(key string, info TokenInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := strings.ToLower(key)
	if _, ok := c.tokens[k]; ok {
		return
	}
	c.tokens[k] = info
	c.saveFile(c.tokenFile, c.tokens)
}

func (c *Cache) GetToken(key string) (TokenInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, ok := c.tokens[strings.ToLower(key)]
	return info, ok
}

func (c *Cache) RemovePool(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := strings.ToLower(key)
	if _, ok := c.pools[k]; !ok {
		return
	}
	delete(c.pools, k)
	c.saveFile(c.poolFile, c.pools)
}

func (c *Cache) RemoveToken(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := strings.ToLower(key)
	if _, ok := c.tokens[k]; !ok {
		return
	}
	delete(c.tokens, k)
	c.saveFile(c.tokenFile, c.tokens)
}

func (c *Cache) PoolCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pools)
}

func (c *Cache) TokenCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tokens)
}

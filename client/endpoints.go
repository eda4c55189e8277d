package client

const (
	DefaultTestUrl       = "https://secure-test.wp3.rbsworldpay.com/wcc/iadmin"
	DefaultProductionUrl = "https://secure.wp3.rbsworldpay.com/wcc/iadmin"
)

// Url returns the endpoint the next command will be posted to. It follows the
// test mode flag as it is at call time.
func (c *Iadmin) Url() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.testMode.Load() {
		return c.testUrl
	}
	return c.productionUrl
}

func (c *Iadmin) ProductionUrl() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.productionUrl
}

func (c *Iadmin) SetProductionUrl(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.productionUrl = url
}

func (c *Iadmin) TestUrl() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.testUrl
}

func (c *Iadmin) SetTestUrl(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.testUrl = url
}

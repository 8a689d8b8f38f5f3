package carteira

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Client for the investidor10.com.br online wallet. The API is the one the
// website itself uses: authentication is the laravel session cookie, ticker
// ids are resolved through the site search endpoint, and trades are posted
// one by one into a wallet.

const i10SessionEnv = "INVESTIDOR10_SESSION"

var i10SessionFlag = flag.String("investidor10-session", "", "laravel session token for investidor10.com.br.\n If missing it will read the environment variable \""+i10SessionEnv+"\".")

// Investidor10Session returns the session token from the flag or the environment.
func Investidor10Session() string {
	if *i10SessionFlag == "" {
		*i10SessionFlag = os.Getenv(i10SessionEnv)
	}
	return *i10SessionFlag
}

// assetKind distinguishes the two search namespaces of the site.
type assetKind string

const (
	kindTicker assetKind = "ticker"
	kindFII    assetKind = "fii"
)

// OnlineTicker is an asset as known by the online wallet.
type OnlineTicker struct {
	ID   int
	Name string
	Kind assetKind
}

// Investidor10 is a client for the investidor10.com.br wallet API.
type Investidor10 struct {
	client   *http.Client
	baseURL  string
	session  string
	walletID int
}

// NewInvestidor10 creates a client for the given session token and wallet id.
func NewInvestidor10(session string, walletID int) *Investidor10 {
	return &Investidor10{
		client:   daily(),
		baseURL:  "https://investidor10.com.br",
		session:  session,
		walletID: walletID,
	}
}

func (c *Investidor10) headers(req *http.Request) {
	req.Header.Set("User-Agent", "carteira")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", "laravel_session="+c.session)
}

// TickerID resolves a ticker symbol into the online wallet's asset id. It
// searches the stock namespace first and falls back to the FII one.
func (c *Investidor10) TickerID(ticker string) (OnlineTicker, error) {
	t, err := c.search(kindTicker, ticker)
	if err == nil {
		return t, nil
	}
	return c.search(kindFII, ticker)
}

func (c *Investidor10) search(kind assetKind, ticker string) (OnlineTicker, error) {
	addr := fmt.Sprintf("%s/api/buscar/%s/?_type=query&q=%s", c.baseURL, kind, url.QueryEscape(ticker))

	req, err := http.NewRequest(http.MethodGet, addr, nil)
	if err != nil {
		return OnlineTicker{}, err
	}
	c.headers(req)

	var jobj any
	if err := jdo(c.client, req, &jobj); err != nil {
		return OnlineTicker{}, fmt.Errorf("error searching %q: %w", ticker, err)
	}

	// The search returns a list of matches, the first one is the asset.
	jid, err := jsonpath.Get("$[0].id", jobj)
	if err != nil {
		return OnlineTicker{}, fmt.Errorf("ticker %q not found as %s: %w", ticker, kind, err)
	}
	id, ok := jid.(float64)
	if !ok {
		return OnlineTicker{}, fmt.Errorf("ticker %q: id is not a number: %v", ticker, jid)
	}

	name := ticker
	if jname, err := jsonpath.Get("$[0].name", jobj); err == nil {
		if s, ok := jname.(string); ok {
			name = s
		}
	}

	return OnlineTicker{ID: int(id), Name: name, Kind: kind}, nil
}

// i10Trade is the wire shape of a trade as the wallet API expects it.
type i10Trade struct {
	TickerType   string `json:"ticker_type"`
	UserWalletID int    `json:"user_wallet_id"`
	TradeType    string `json:"type"`
	Source       string `json:"source"`
	Token        string `json:"_token"`
	Date         string `json:"date"`
	Qty          int64  `json:"qty"`
	Ticker       int    `json:"ticker"`
	Price        string `json:"price"`
	Cost         int    `json:"cost"`
}

// i10Price formats a unit price the way the wallet API expects it: comma
// decimal separator, two digits, padded with six zeros.
func i10Price(m Money) string {
	s := m.Decimal().Round(2).StringFixed(2)
	return strings.Replace(s, ".", ",", 1) + "000000"
}

// newTrade converts a ledger transaction into the trade payload.
func (c *Investidor10) newTrade(tx Transaction) (i10Trade, error) {
	info, err := c.TickerID(tx.Ticker())
	if err != nil {
		return i10Trade{}, err
	}

	var tradeType string
	switch tx.What() {
	case CmdBuy:
		tradeType = "BUY"
	case CmdSell:
		tradeType = "SELL"
	default:
		return i10Trade{}, fmt.Errorf("unsupported transaction type %q", tx.What())
	}

	tickerType := "Ticker"
	if info.Kind == kindFII {
		tickerType = "fii"
	}

	// Qty is always a whole number of shares in the ledger.
	qty, whole := tx.Shares().Int64()
	if !whole {
		return i10Trade{}, fmt.Errorf("share count %s is not a whole number", tx.Shares())
	}

	return i10Trade{
		TickerType:   tickerType,
		UserWalletID: c.walletID,
		TradeType:    tradeType,
		Source:       "Manual",
		Date:         tx.When().Format("02/01/2006"),
		Qty:          qty,
		Ticker:       info.ID,
		Price:        i10Price(tx.UnitPrice()),
	}, nil
}

// AddTrade uploads one ledger transaction to the online wallet.
func (c *Investidor10) AddTrade(tx Transaction) error {
	trade, err := c.newTrade(tx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(trade)
	if err != nil {
		return fmt.Errorf("cannot marshal trade for %s: %w", tx.Ticker(), err)
	}

	addr := fmt.Sprintf("%s/api/minhas-carteiras/lancamentos/%d/", c.baseURL, c.walletID)
	req, err := http.NewRequest(http.MethodPost, addr, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.headers(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot post trade for %s: %w", tx.Ticker(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("cannot post trade for %s: %s", tx.Ticker(), resp.Status)
	}
	return nil
}

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// Only GETs are cacheable; trade uploads must always hit the server.
	if req.Method != http.MethodGet {
		return c.base.RoundTrip(req)
	}

	// diskcache implements a unique key per day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// daily returns a client with a disk cache that expires every day.
func daily() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// jdo performs an HTTP request and unmarshals the JSON response into the
// provided data structure.
func jdo(client *http.Client, req *http.Request, data interface{}) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http %s %v/%v: %v", req.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}

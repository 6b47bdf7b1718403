package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/meridian-protocol/meridian/gov"
	"github.com/meridian-protocol/meridian/lib"
)

// Client is a typed HTTP client for the Meridian RPC server
type Client struct {
	rpcURL  string
	rpcPort string
	client  http.Client
}

// NewClient() constructs a client pointed at the url and port
func NewClient(rpcURL, rpcPort string) *Client {
	return &Client{rpcURL: rpcURL, rpcPort: rpcPort, client: http.Client{}}
}

func (c *Client) Version() (version *string, err lib.ErrorI) {
	version = new(string)
	err = c.get(VersionRoutePath, version)
	return
}

func (c *Client) Height() (p *uint64, err lib.ErrorI) {
	result := new(heightResponse)
	if err = c.get(HeightRoutePath, result); err != nil {
		return
	}
	return &result.Height, nil
}

func (c *Client) Config() (p *gov.Config, err lib.ErrorI) {
	p = new(gov.Config)
	err = c.get(ConfigRoutePath, p)
	return
}

func (c *Client) State() (p *gov.GlobalState, err lib.ErrorI) {
	p = new(gov.GlobalState)
	err = c.get(StateRoutePath, p)
	return
}

func (c *Client) Staker(address string) (p *gov.StakerAccount, err lib.ErrorI) {
	p = new(gov.StakerAccount)
	err = c.get(strings.Replace(StakerRoutePath, ":address", address, 1), p)
	return
}

func (c *Client) Stakers() (p []*gov.StakerAccount, err lib.ErrorI) {
	err = c.get(StakersRoutePath, &p)
	return
}

func (c *Client) Poll(id uint64) (p *gov.Poll, err lib.ErrorI) {
	p = new(gov.Poll)
	err = c.get(strings.Replace(PollRoutePath, ":id", strconv.FormatUint(id, 10), 1), p)
	return
}

func (c *Client) Polls(status string) (p []*gov.Poll, err lib.ErrorI) {
	path := PollsRoutePath
	if status != "" {
		path += "?status=" + status
	}
	err = c.get(path, &p)
	return
}

// Transaction() submits a governance message under the stated caller identity
func (c *Client) Transaction(caller lib.HexBytes, msg gov.MessageI) (p *TxRequest, err lib.ErrorI) {
	body, err := lib.MarshalJSON(msg)
	if err != nil {
		return nil, err
	}
	p = &TxRequest{Caller: caller, Name: msg.Name(), Msg: body}
	bz, err := lib.MarshalJSON(p)
	if err != nil {
		return nil, err
	}
	err = c.post(TxRoutePath, bz, p)
	return
}

// url() builds the full request url for a route path
func (c *Client) url(path string) string {
	return c.rpcURL + colon + c.rpcPort + path
}

// get() executes an HTTP GET and decodes the response into ptr
func (c *Client) get(path string, ptr any) lib.ErrorI {
	resp, err := c.client.Get(c.url(path))
	if err != nil {
		return ErrRPCRequest(err)
	}
	return c.decode(resp, ptr)
}

// post() executes an HTTP POST and decodes the response into ptr
func (c *Client) post(path string, body []byte, ptr any) lib.ErrorI {
	resp, err := c.client.Post(c.url(path), ApplicationJSON, bytes.NewBuffer(body))
	if err != nil {
		return ErrRPCRequest(err)
	}
	return c.decode(resp, ptr)
}

// decode() validates the response status and unmarshals the body into ptr
func (c *Client) decode(resp *http.Response, ptr any) lib.ErrorI {
	defer func() { _ = resp.Body.Close() }()
	bz, err := io.ReadAll(io.LimitReader(resp.Body, maxRequestBody))
	if err != nil {
		return ErrRPCRequest(err)
	}
	if resp.StatusCode != http.StatusOK {
		return ErrRPCResponse(fmt.Errorf("http status %d: %s", resp.StatusCode, string(bz)))
	}
	if err = json.Unmarshal(bz, ptr); err != nil {
		return ErrRPCResponse(err)
	}
	return nil
}

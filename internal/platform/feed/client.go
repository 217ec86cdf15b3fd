// Package feed pulls emergency room data from the national open-data API:
// the real-time bed availability endpoint per region and the per-facility
// basic-info endpoint. Responses are XML.
package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	pathBedStatus = "/getEmrrmRltmUsefulSckbdInfoInqire"
	pathBasicInfo = "/getEgytBassInfoInqire"

	resultOK = "00"
)

// Item carries the fields we read from one bed-status row. Field codes are
// the upstream API's own naming and form a fixed contract.
type Item struct {
	HPID   string `xml:"hpid"`
	HVDate string `xml:"hvidate"`

	HVEC  string `xml:"hvec"`  // general ER available
	HVS01 string `xml:"hvs01"` // general ER total
	HV28  string `xml:"hv28"`  // child ER available
	HVS02 string `xml:"hvs02"` // child ER total
	HV42  string `xml:"hv42"`  // delivery room, count or Y/N
	HVS26 string `xml:"hvs26"` // delivery room total
	HV29  string `xml:"hv29"`  // negative pressure available
	HVS03 string `xml:"hvs03"` // negative pressure total
	HV30  string `xml:"hv30"`  // general isolation available
	HVS04 string `xml:"hvs04"` // general isolation total
	HV27  string `xml:"hv27"`  // cohort isolation available
	HVS59 string `xml:"hvs59"` // cohort isolation total

	HVCTAYN    string `xml:"hvctayn"`
	HVMRIAYN   string `xml:"hvmriayn"`
	HVAngioYN  string `xml:"hvangioayn"`
	HVVentiaYN string `xml:"hvventiayn"`
}

// BasicItem carries the basic-info fields used to confirm delivery room
// facilities.
type BasicItem struct {
	HPID     string `xml:"hpid"`
	DutyName string `xml:"dutyName"`
	DutyAddr string `xml:"dutyAddr"`
	DutyTel3 string `xml:"dutyTel3"`
	Lat      string `xml:"wgs84Lat"`
	Lng      string `xml:"wgs84Lon"`
	DutyObst string `xml:"dutyObstYn"`
	DutyHayn string `xml:"dutyHayn"`
	HPerYN   string `xml:"hperyn"`
}

type envelope struct {
	XMLName xml.Name `xml:"response"`
	Header  struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		Items struct {
			Item []Item `xml:"item"`
		} `xml:"items"`
	} `xml:"body"`
}

type basicEnvelope struct {
	XMLName xml.Name `xml:"response"`
	Header  struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		Items struct {
			Item []BasicItem `xml:"item"`
		} `xml:"items"`
	} `xml:"body"`
}

type Client struct {
	http       *resty.Client
	serviceKey string
	logger     zerolog.Logger
}

func NewClient(baseURL, serviceKey string, logger zerolog.Logger) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{
		http:       http,
		serviceKey: serviceKey,
		logger:     logger.With().Str("component", "feed").Logger(),
	}
}

// BedStatus fetches the real-time bed rows for one region.
func (c *Client) BedStatus(ctx context.Context, sido, sigungu string) ([]Item, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"serviceKey": c.serviceKey,
			"STAGE1":     sido,
			"STAGE2":     sigungu,
			"pageNo":     "1",
			"numOfRows":  "200",
		}).
		Get(pathBedStatus)
	if err != nil {
		return nil, fmt.Errorf("bed status request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("bed status: http %d", resp.StatusCode())
	}

	var env envelope
	if err := xml.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("bed status: parse xml: %w", err)
	}
	if env.Header.ResultCode != resultOK {
		return nil, fmt.Errorf("bed status: api error %s: %s", env.Header.ResultCode, env.Header.ResultMsg)
	}
	return env.Body.Items.Item, nil
}

// BasicInfo fetches one facility's basic-info row, nil when the API knows
// nothing about the HPID.
func (c *Client) BasicInfo(ctx context.Context, hpid string) (*BasicItem, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"serviceKey": c.serviceKey,
			"HPID":       hpid,
			"pageNo":     "1",
			"numOfRows":  "1",
		}).
		Get(pathBasicInfo)
	if err != nil {
		return nil, fmt.Errorf("basic info request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("basic info: http %d", resp.StatusCode())
	}

	var env basicEnvelope
	if err := xml.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("basic info: parse xml: %w", err)
	}
	if env.Header.ResultCode != resultOK {
		return nil, fmt.Errorf("basic info: api error %s: %s", env.Header.ResultCode, env.Header.ResultMsg)
	}
	if len(env.Body.Items.Item) == 0 {
		return nil, nil
	}
	return &env.Body.Items.Item[0], nil
}

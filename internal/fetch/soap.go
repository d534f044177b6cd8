package fetch

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"golang.org/x/net/html/charset"
)

const (
	soapHeader = `<SOAP-ENV:Envelope xmlns:SOAP-ENC="http://schemas.xmlsoap.org/soap/encoding/"
xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"
xmlns:xsd="http://www.w3.org/2001/XMLSchema"
xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
SOAP-ENV:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">
<SOAP-ENV:Header></SOAP-ENV:Header>
<SOAP-ENV:Body xmlns:ns1="%s">`
	soapFooter = `</SOAP-ENV:Body></SOAP-ENV:Envelope>`
)

// Param is one argument of a SOAP action, sent in order.
type Param struct {
	Name  string
	Value string
}

// Envelope wraps an action and its params in a SOAP request body.
func Envelope(namespace, action string, params []Param) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, soapHeader, namespace)
	fmt.Fprintf(&b, "<ns1:%s>\n", action)
	for _, p := range params {
		b.WriteString("<" + p.Name + ">")
		xml.EscapeText(&b, []byte(p.Value))
		b.WriteString("</" + p.Name + ">\n")
	}
	fmt.Fprintf(&b, "</ns1:%s>", action)
	b.WriteString(soapFooter)
	return b.Bytes()
}

// SOAP posts action to endpoint and returns the string payload carried by
// the action's response element.
func (c *Client) SOAP(ctx context.Context, endpoint, namespace, action string, params []Param) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(Envelope(namespace, action, params)))
	if err != nil {
		return nil, &apperr.FetchError{URL: endpoint, Err: err}
	}
	req.Header.Set("SOAPAction", fmt.Sprintf("%q", namespace+"#"+action))
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	payload, err := Unwrap(body)
	if err != nil {
		return nil, &apperr.FetchError{URL: endpoint, Err: fmt.Errorf("%s: %w", action, err)}
	}
	return payload, nil
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

// Unwrap extracts the payload from a SOAP response envelope: the character
// data of the single child of the first element inside Body.
func Unwrap(body []byte) ([]byte, error) {
	var env struct {
		Body struct {
			Fault *soapFault `xml:"Fault"`
			Inner []byte     `xml:",innerxml"`
		} `xml:"Body"`
	}
	if err := DecodeXML(body, &env); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}
	if f := env.Body.Fault; f != nil {
		return nil, fmt.Errorf("soap fault %s: %s", f.Code, f.String)
	}

	var resp struct {
		XMLName xml.Name
		Return  struct {
			Value string `xml:",chardata"`
		} `xml:",any"`
	}
	if err := DecodeXML(env.Body.Inner, &resp); err != nil {
		return nil, fmt.Errorf("decoding response element: %w", err)
	}
	payload := strings.TrimSpace(resp.Return.Value)
	if payload == "" {
		return nil, fmt.Errorf("no data in %s", resp.XMLName.Local)
	}
	return []byte(payload), nil
}

// DecodeXML decodes laxly: any declared charset, HTML entities allowed.
func DecodeXML(body []byte, v any) error {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.CharsetReader = charset.NewReaderLabel
	decoder.Entity = xml.HTMLEntity
	return decoder.Decode(v)
}

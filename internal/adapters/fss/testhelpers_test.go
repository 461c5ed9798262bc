package fss

import (
	"testing"
	"time"

	"github.com/kevin07696/fss-gateway/test/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedObservation struct {
	Action  string
	Outcome string
}

type fakeRecorder struct {
	observations []recordedObservation
}

func (r *fakeRecorder) RecordTransaction(action, outcome string, elapsed time.Duration) {
	r.observations = append(r.observations, recordedObservation{Action: action, Outcome: outcome})
}

func newTestGateway(t *testing.T, transport *mocks.MockTransport, opts ...Option) *Gateway {
	t.Helper()
	gw, err := New(DefaultConfig("login", "password", true), transport, zap.NewNop(), opts...)
	require.NoError(t, err)
	return gw
}

func testCard() *CreditCard {
	return &CreditCard{
		Name:              "Longbob Longsen",
		Number:            "4000100011112224",
		VerificationValue: "123",
		Month:             9,
		Year:              2027,
	}
}

func strPtr(s string) *string {
	return &s
}

const successfulPurchaseResponse = `
      <result>CAPTURED</result>
      <auth>999999</auth>
      <ref>227615274218</ref>
      <avr>N</avr>
      <postdate>1002</postdate>
      <tranid>849768440022761</tranid>
      <payid>-1</payid>
      <udf2></udf2>
      <udf5></udf5>
      <amt>1.00</amt>
`

const failedPurchaseResponse = ``

const invalidBrandResponse = `
      <error_code_tag>GW00160</error_code_tag>
      <error_service_tag>null</error_service_tag>
      <result>null</result>
      <error_text>!ERROR!-GW00160-Invalid Brand.</error_text>
`

const enrolledResponse = `
      <result>ENROLLED</result>
      <url>https://acs.example.test/mdpayacs/pareq</url>
      <PAReq>eJxVUk1zgjAQvfsrGO4lCSKis8ax2k49aB1rp2cKq9LyYUOw</PAReq>
      <paymentid>8991234567890123</paymentid>
      <eci>5</eci>
`

const notEnrolledResponse = `
      <result>NOT ENROLLED</result>
      <eci>7</eci>
`

const successfulAuthenticationResponse = `
      <result>CAPTURED</result>
      <auth>555555</auth>
      <tranid>849768440099999</tranid>
      <amt>1.00</amt>
`

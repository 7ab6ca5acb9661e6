package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAccount(t *testing.T) {
	tests := []struct {
		isp  IspType
		want string
	}{
		{IspEDU, "B21000000"},
		{IspCMCC, "B21000000@cmcc"},
		{IspCT, "B21000000@njxy"},
	}

	for _, tt := range tests {
		t.Run(string(tt.isp), func(t *testing.T) {
			c := Credential{UserID: "B21000000", Password: Basic("x"), ISP: tt.isp}
			assert.Equal(t, tt.want, c.DeriveAccount())
		})
	}
}

func TestIspType_UnmarshalText(t *testing.T) {
	var isp IspType
	require.NoError(t, isp.UnmarshalText([]byte("cmcc")))
	assert.Equal(t, IspCMCC, isp)

	assert.Error(t, isp.UnmarshalText([]byte("unicom")))
}

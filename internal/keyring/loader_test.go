package keyring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAbsence(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"dbus unreachable", errors.New("dial unix /run/dbus/system_bus_socket: no such file"), false},
		{"secret-service missing", errors.New("the Secret Service appears to be unavailable"), true},
		{"not supported", errors.New("keyring not supported on this platform"), true},
		{"unrelated", errors.New("permission denied"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := classifyAbsence(c.err)
			assert.Equal(t, c.want, IsUnavailable(got))
		})
	}
}

func TestClassifyAbsence_DBusSignature(t *testing.T) {
	err := classifyAbsence(errors.New("org.freedesktop.dbus.Error.ServiceUnknown"))
	assert.True(t, IsUnavailable(err))
}

package notify

import (
	"context"
	"fmt"
	"grantsync-backend/lib/grantstore"
	"grantsync-backend/lib/telemetry"
	"io"
	"log"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestSendDigest(t *testing.T) {
	if testing.Short() {
		t.Skip("starts an smtp container")
	}
	cleanup := telemetry.SetupForTesting(t, "test:lib/notify")
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	smtpServer, err := testcontainers.GenericContainer(
		ctx,
		testcontainers.GenericContainerRequest{
			Started: true,
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "haravich/fake-smtp-server",
				ExposedPorts: []string{"1025/tcp", "1080/tcp"},
				WaitingFor:   wait.ForLog("smtp://0.0.0.0:1025"),
			},
		},
	)
	if err != nil {
		t.Skipf("could not start smtp container: %v", err)
	}
	defer func() {
		err := smtpServer.Terminate(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	}()

	host, err := smtpServer.Host(ctx)
	require.NoError(t, err)
	smtpPort, err := smtpServer.MappedPort(ctx, "1025/tcp")
	require.NoError(t, err)
	webPort, err := smtpServer.MappedPort(ctx, "1080/tcp")
	require.NoError(t, err)

	grants := []grantstore.Grant{
		{
			Title:    "Enterprise Development Grant",
			Agency:   "Enterprise Singapore",
			Deadline: daysFromNow(3),
			Url:      "https://oursggrants.gov.sg/grants/edg",
		},
	}
	err = SendDigest(ctx, SmtpConfig{
		Server:       host,
		Port:         smtpPort.Int(),
		EmailAddress: "alerts@email.com",
		Password:     "default",
	}, "bob@email.com", grants, now)
	require.NoError(t, err)

	res, err := resty.New().R().
		SetContext(ctx).
		Get(fmt.Sprintf("http://%s:%d/messages/1.plain", host, webPort.Int()))
	require.NoError(t, err)
	require.Contains(t, res.String(), "Enterprise Development Grant (Enterprise Singapore): 3 days left")
}

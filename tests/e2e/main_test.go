package e2e_test

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DIMO-Network/messenger-webhook-api/internal/config"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const verifyToken = "e2e-verify-token"

var (
	testServices        *TestServices
	globalTestContainer sync.Once
	srvcLock            sync.Mutex
)

type TestServices struct {
	Kafka    *mockKafkaServer
	tokenDir string
	refs     atomic.Int64
	Settings config.Settings
}

func GetTestServices(t *testing.T) *TestServices {
	t.Helper()
	srvcLock.Lock()
	globalTestContainer.Do(func() {
		logger := zerolog.New(os.Stdout).Level(zerolog.WarnLevel)
		zerolog.DefaultContextLogger = &logger

		tokenDir, err := os.MkdirTemp("", "messenger-webhook-e2e")
		require.NoError(t, err)
		tokenFile := filepath.Join(tokenDir, "verify_token")
		require.NoError(t, os.WriteFile(tokenFile, []byte(verifyToken+"\n"), 0o600))

		settings := config.Settings{
			Port:             8080,
			MonPort:          9090,
			ServiceName:      "messenger-webhook-api",
			VerifyTokenFile:  tokenFile,
			MaxBodySize:      1 << 20,
			BodyReadTimeout:  10 * time.Second,
			CORSAllowOrigins: "*",
		}

		testServices = &TestServices{
			Settings: settings,
			tokenDir: tokenDir,
		}
		var wg sync.WaitGroup
		waitForSetup(t, &wg, func(t *testing.T) {
			kafka := setupMockKafkaServer(t)
			testServices.Kafka = kafka
			testServices.Settings.KafkaBrokers = kafka.GetBrokerAddress(t)
			testServices.Settings.MessageEventsTopic = "test.messenger.events"
		})
		wg.Wait()
	})
	srvcLock.Unlock()
	testServices.TeardownIfLastTest(t)
	return testServices
}

// SettingsWithTopic returns a copy of the shared settings publishing to a
// topic no other test uses.
func (tc *TestServices) SettingsWithTopic() config.Settings {
	settings := tc.Settings
	settings.MessageEventsTopic = "test.messenger.events." + uuid.NewString()
	return settings
}

func (tc *TestServices) TeardownIfLastTest(t *testing.T) {
	tc.refs.Add(1)
	t.Cleanup(func() {
		refs := tc.refs.Add(-1)
		if refs != 0 {
			return
		}
		if err := tc.Kafka.Close(); err != nil {
			t.Logf("Error closing Kafka: %v", err)
		}
		_ = os.RemoveAll(tc.tokenDir)
		// reset the onceSetup to allow the next test to run if this one is closed
		globalTestContainer = sync.Once{}
	})
}

func waitForSetup(t *testing.T, wg *sync.WaitGroup, setup func(*testing.T)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		setup(t)
	}()
}

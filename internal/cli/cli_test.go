package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asquebay/pizzaria-carrinho/internal/cart"
	"github.com/asquebay/pizzaria-carrinho/internal/config"
	"github.com/asquebay/pizzaria-carrinho/internal/lib/logger"
	"github.com/asquebay/pizzaria-carrinho/internal/model"
	"github.com/asquebay/pizzaria-carrinho/internal/repository/local"
)

// orderBackend записывает принятые заказы и отвечает заданным кодом
type orderBackend struct {
	mu     sync.Mutex
	status int
	orders []model.Order
}

func (b *orderBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var order model.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status >= 300 {
		w.WriteHeader(b.status)
		return
	}
	b.orders = append(b.orders, order)
	w.WriteHeader(http.StatusCreated)
}

func writeConfig(t *testing.T, endpoint string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf(`logger:
  level: error
cart:
  storage_path: %s
  transport: http
  order_endpoint: %s
`, filepath.Join(dir, "carrinho"), endpoint)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(append(args, "--config", configPath))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands_CartLifecycle(t *testing.T) {
	backend := &orderBackend{}
	srv := httptest.NewServer(backend)
	defer srv.Close()
	configPath := writeConfig(t, srv.URL)

	out, err := run(t, configPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, cart.EmptyMessage)

	_, err = run(t, configPath, "add", "--size", "G", "--flavor", "1:Calabresa", "--flavor", "2:Mussarela", "--price", "45.9")
	require.NoError(t, err)
	_, err = run(t, configPath, "add", "--size", "M", "--flavor", "3:Portuguesa", "--price", "38")
	require.NoError(t, err)
	_, err = run(t, configPath, "add", "--size", "P", "--flavor", "4:Marguerita")
	require.NoError(t, err)

	out, err = run(t, configPath, "list")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Pizza G"), strings.Index(out, "Pizza M"))
	assert.Contains(t, out, "Sabor 2: Mussarela")
	assert.Contains(t, out, "Valor: "+model.UnavailablePrice)
	assert.Contains(t, out, "Total: R$ 83.90")

	out, err = run(t, configPath, "remove", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "Pizza M")
	assert.Contains(t, out, "Total: R$ 45.90")

	out, err = run(t, configPath, "list", "--json")
	require.NoError(t, err)
	var stored model.Cart
	require.NoError(t, json.Unmarshal([]byte(out), &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, "P", stored[1].Size)

	out, err = run(t, configPath, "submit")
	require.NoError(t, err)
	assert.Contains(t, out, "Pedido enviado com sucesso!")

	require.Len(t, backend.orders, 1)
	got := backend.orders[0]
	assert.Equal(t, model.DefaultCustomerID, got.CustomerID)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, 45.9, got.Total)
	require.Len(t, got.LineItems, 2)
	assert.Equal(t, []int64{1, 2}, got.LineItems[0].Flavor.FlavorIDs)
	assert.Equal(t, []int64{4}, got.LineItems[1].Flavor.FlavorIDs)

	out, err = run(t, configPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, cart.EmptyMessage)
}

func TestSubmitCommand_FailureKeepsCart(t *testing.T) {
	backend := &orderBackend{status: http.StatusInternalServerError}
	srv := httptest.NewServer(backend)
	defer srv.Close()
	configPath := writeConfig(t, srv.URL)

	_, err := run(t, configPath, "add", "--size", "G", "--flavor", "1:Calabresa", "--price", "40")
	require.NoError(t, err)

	out, err := run(t, configPath, "submit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed with status code 500")
	assert.Contains(t, out, cart.ErrorPrefix+"request failed with status code 500")
	assert.Contains(t, out, "Pizza G")

	out, err = run(t, configPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Pizza G")
}

func TestSubmitCommand_EmptyCart(t *testing.T) {
	backend := &orderBackend{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	out, err := run(t, writeConfig(t, srv.URL), "submit")
	require.NoError(t, err)
	assert.Contains(t, out, cart.EmptyMessage)
	assert.Empty(t, backend.orders)
}

func TestRemoveCommand_BadIndex(t *testing.T) {
	configPath := writeConfig(t, "http://127.0.0.1:0")

	_, err := run(t, configPath, "remove", "abc")
	assert.Error(t, err)

	_, err = run(t, configPath, "remove", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, cart.ErrIndexOutOfRange)
}

func TestAddCommand_Validation(t *testing.T) {
	configPath := writeConfig(t, "http://127.0.0.1:0")

	_, err := run(t, configPath, "add", "--size", "G", "--flavor", "Calabresa")
	assert.Error(t, err)

	_, err = run(t, configPath, "add", "--flavor", "1:Calabresa")
	assert.Error(t, err)

	for _, price := range []string{"-5", "NaN", "+Inf"} {
		_, err = run(t, configPath, "add", "--size", "G", "--flavor", "1:Calabresa", "--price", price)
		assert.ErrorIs(t, err, model.ErrInvalidPrice, price)
	}

	out, err := run(t, configPath, "list", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestParseFlavor(t *testing.T) {
	f, err := parseFlavor("7: Quatro Queijos ")
	require.NoError(t, err)
	assert.Equal(t, model.Flavor{ID: 7, Name: "Quatro Queijos"}, f)

	for _, bad := range []string{"", "7", "x:Calabresa", "0:Calabresa", "-1:Calabresa"} {
		_, err := parseFlavor(bad)
		assert.Error(t, err, bad)
	}
}

func TestRenderCart(t *testing.T) {
	empty := RenderCart(cart.State{Empty: true, TotalText: "R$ 0.00"})
	assert.Contains(t, empty, "Carrinho de Compras")
	assert.Contains(t, empty, cart.EmptyMessage)
	assert.NotContains(t, empty, "Total")

	out := RenderCart(cart.State{
		Items: []cart.ItemState{
			{Index: 0, Title: "Pizza G", Flavors: []string{"Sabor 1: Calabresa"}, PriceText: "R$ 45.90"},
		},
		TotalText: "R$ 45.90",
		Error:     cart.ErrorPrefix + "timeout",
	})
	assert.Contains(t, out, "Erro ao finalizar pedido: timeout")
	assert.Contains(t, out, "[0]")
	assert.Contains(t, out, "Sabor 1: Calabresa")
	assert.Contains(t, out, "Total: R$ 45.90")
}

func TestOpenCart_InMemory(t *testing.T) {
	cfg := &config.Config{Cart: config.Cart{Transport: config.TransportHTTP}}
	app, err := openCart(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), true)
	require.NoError(t, err)
	defer app.Close()

	assert.True(t, app.view.State().Empty)
	require.NoError(t, app.view.Add(context.Background(), model.CartItem{
		Size:    "M",
		Flavors: []model.Flavor{{ID: 9, Name: "Atum"}},
		Price:   model.NewPrice(30),
	}))
	assert.Equal(t, 30.0, app.view.Total())
}

// unreadableKV отдаёт ошибку чтения на любой ключ, запись работает
type unreadableKV struct {
	*local.MemoryStore
}

func (unreadableKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("input/output error")
}

func TestNewCartApp_ReadErrorStartsEmpty(t *testing.T) {
	logs := new(bytes.Buffer)
	log := logger.NewWithWriter(logs, "info", "text")
	cfg := &config.Config{Cart: config.Cart{Transport: config.TransportHTTP}}

	app := newCartApp(context.Background(), cfg, log, unreadableKV{local.NewMemoryStore()}, nil)
	defer app.Close()

	assert.True(t, app.view.State().Empty)
	assert.Empty(t, app.view.State().Error)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "input/output error")

	require.NoError(t, app.view.Add(context.Background(), model.CartItem{
		Size:    "G",
		Flavors: []model.Flavor{{ID: 1, Name: "Calabresa"}},
		Price:   model.NewPrice(40),
	}))
	assert.Len(t, app.view.Items(), 1)
}

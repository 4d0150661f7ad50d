package alchemy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"walletscan/internal/config"
	"walletscan/internal/models"
)

const testWallet = "0x1111111111111111111111111111111111111111"

func newRPCTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	c, _ := newTestClient(server.URL, 0)
	return c, server
}

func TestNativeBalance(t *testing.T) {
	c, server := newRPCTestClient(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Method != "eth_getBalance" {
			t.Errorf("expected eth_getBalance, got %s", req.Method)
		}
		rpcResult(t, w, "0x0de0b6b3a7640000")
	})
	defer server.Close()

	balance, err := c.NativeBalance(context.Background(), models.NetworkEthereum, testWallet)
	if err != nil {
		t.Fatalf("NativeBalance() error = %v", err)
	}

	want, _ := new(big.Int).SetString("1000000000000000000", 10)
	if balance.Cmp(want) != 0 {
		t.Errorf("expected balance %s, got %s", want, balance)
	}
}

func TestNativeBalance_RejectsSolanaBeforeAnyCall(t *testing.T) {
	calls := 0
	c, server := newRPCTestClient(func(w http.ResponseWriter, r *http.Request) {
		calls++
	})
	defer server.Close()

	_, err := c.NativeBalance(context.Background(), models.NetworkSolana, testWallet)
	if !errors.Is(err, config.ErrInvalidNetwork) {
		t.Fatalf("expected ErrInvalidNetwork, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no network calls, got %d", calls)
	}
}

func TestTokenBalances_PaginationAndZeroFilter(t *testing.T) {
	calls := 0
	var secondPageKey string

	c, server := newRPCTestClient(func(w http.ResponseWriter, r *http.Request) {
		calls++

		body, _ := io.ReadAll(r.Body)
		if calls == 2 && strings.Contains(string(body), `"pageKey":"page-2"`) {
			secondPageKey = "page-2"
		}

		switch calls {
		case 1:
			rpcResult(t, w, map[string]any{
				"address": testWallet,
				"tokenBalances": []map[string]string{
					{"contractAddress": "0xaaa", "tokenBalance": "0x5"},
					{"contractAddress": "0xbbb", "tokenBalance": "0x0"},
				},
				"pageKey": "page-2",
			})
		default:
			rpcResult(t, w, map[string]any{
				"address": testWallet,
				"tokenBalances": []map[string]string{
					{"contractAddress": "0xccc", "tokenBalance": "0x10"},
				},
			})
		}
	})
	defer server.Close()

	balances, err := c.TokenBalances(context.Background(), models.NetworkPolygon, testWallet)
	if err != nil {
		t.Fatalf("TokenBalances() error = %v", err)
	}

	if calls != 2 {
		t.Errorf("expected 2 upstream calls, got %d", calls)
	}
	if secondPageKey != "page-2" {
		t.Error("expected second call to carry the continuation pageKey")
	}
	if len(balances) != 2 {
		t.Fatalf("expected 2 balances (zero filtered out), got %d", len(balances))
	}
	if balances[0].ContractAddress != "0xaaa" || balances[1].ContractAddress != "0xccc" {
		t.Errorf("pages not concatenated in order: %+v", balances)
	}
}

func TestTokenBalances_EmptyWallet(t *testing.T) {
	c, server := newRPCTestClient(func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, map[string]any{"address": testWallet, "tokenBalances": []any{}})
	})
	defer server.Close()

	balances, err := c.TokenBalances(context.Background(), models.NetworkEthereum, testWallet)
	if err != nil {
		t.Fatalf("TokenBalances() error = %v", err)
	}
	if len(balances) != 0 {
		t.Errorf("expected no balances, got %d", len(balances))
	}
}

// A pageKey that never stops repeating must trip the page cap instead of
// looping forever.
func TestTokenBalances_PaginationCap(t *testing.T) {
	calls := 0
	c, server := newRPCTestClient(func(w http.ResponseWriter, r *http.Request) {
		calls++
		rpcResult(t, w, map[string]any{
			"address":       testWallet,
			"tokenBalances": []any{},
			"pageKey":       "again",
		})
	})
	defer server.Close()

	_, err := c.TokenBalances(context.Background(), models.NetworkEthereum, testWallet)
	if !errors.Is(err, config.ErrPaginationCap) {
		t.Fatalf("expected ErrPaginationCap, got %v", err)
	}
	if calls != config.MaxPaginationPages {
		t.Errorf("expected %d upstream calls, got %d", config.MaxPaginationPages, calls)
	}
}

func TestTokenMetadata(t *testing.T) {
	c, server := newRPCTestClient(func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, map[string]any{
			"name":     "USD Coin",
			"symbol":   "USDC",
			"decimals": 6,
			"logo":     "https://example.com/usdc.png",
		})
	})
	defer server.Close()

	md, err := c.TokenMetadata(context.Background(), models.NetworkEthereum, "0xusdc")
	if err != nil {
		t.Fatalf("TokenMetadata() error = %v", err)
	}
	if md.Name != "USD Coin" || md.Symbol != "USDC" {
		t.Errorf("unexpected metadata %+v", md)
	}
	if md.Decimals == nil || *md.Decimals != 6 {
		t.Errorf("expected decimals 6, got %v", md.Decimals)
	}
}

func TestTokenMetadata_AbsentDecimalsStayNil(t *testing.T) {
	c, server := newRPCTestClient(func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, map[string]any{"name": "Mystery", "symbol": "MYS"})
	})
	defer server.Close()

	md, err := c.TokenMetadata(context.Background(), models.NetworkEthereum, "0xmys")
	if err != nil {
		t.Fatalf("TokenMetadata() error = %v", err)
	}
	if md.Decimals != nil {
		t.Errorf("expected nil decimals, got %d", *md.Decimals)
	}
}

func TestNFTsForOwner_Pagination(t *testing.T) {
	calls := 0
	c, server := newRPCTestClient(func(w http.ResponseWriter, r *http.Request) {
		calls++

		if !strings.Contains(r.URL.Path, "/nft/v3/"+testAPIKey+"/getNFTsForOwner") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("owner") != testWallet {
			t.Errorf("unexpected owner %q", r.URL.Query().Get("owner"))
		}
		if r.URL.Query().Get("pageSize") != "100" {
			t.Errorf("unexpected pageSize %q", r.URL.Query().Get("pageSize"))
		}

		switch calls {
		case 1:
			json.NewEncoder(w).Encode(map[string]any{
				"ownedNfts": []map[string]any{
					{
						"tokenId":   "1",
						"tokenType": "ERC721",
						"name":      "Punk #1",
						"balance":   "1",
						"contract": map[string]any{
							"address": "0xpunks",
							"name":    "Punks",
							"isSpam":  false,
						},
					},
				},
				"pageKey":    "next-page",
				"totalCount": 2,
			})
		default:
			if r.URL.Query().Get("pageKey") != "next-page" {
				t.Errorf("expected pageKey=next-page, got %q", r.URL.Query().Get("pageKey"))
			}
			json.NewEncoder(w).Encode(map[string]any{
				"ownedNfts": []map[string]any{
					{
						"tokenId": "2",
						// No item-level tokenType; falls back to contract.
						"contract": map[string]any{
							"address":   "0xjunk",
							"name":      "Junk Drop",
							"tokenType": "ERC1155",
							"isSpam":    true,
						},
					},
				},
				"totalCount": 2,
			})
		}
	})
	defer server.Close()

	nfts, err := c.NFTsForOwner(context.Background(), models.NetworkBase, testWallet)
	if err != nil {
		t.Fatalf("NFTsForOwner() error = %v", err)
	}

	if calls != 2 {
		t.Errorf("expected 2 upstream calls, got %d", calls)
	}
	if len(nfts) != 2 {
		t.Fatalf("expected 2 NFTs, got %d", len(nfts))
	}

	first := nfts[0]
	if first.TokenType != "ERC721" || first.CollectionName != "Punks" || first.IsSpam {
		t.Errorf("unexpected first NFT %+v", first)
	}

	second := nfts[1]
	if second.TokenType != "ERC1155" {
		t.Errorf("expected contract tokenType fallback, got %q", second.TokenType)
	}
	if second.Balance != "1" {
		t.Errorf("expected balance default to \"1\", got %q", second.Balance)
	}
	if !second.IsSpam {
		t.Error("expected spam flag carried through")
	}
}

func TestNFTsForOwner_RejectsSolanaBeforeAnyCall(t *testing.T) {
	calls := 0
	c, server := newRPCTestClient(func(w http.ResponseWriter, r *http.Request) {
		calls++
	})
	defer server.Close()

	_, err := c.NFTsForOwner(context.Background(), models.NetworkSolana, testWallet)
	if !errors.Is(err, config.ErrInvalidNetwork) {
		t.Fatalf("expected ErrInvalidNetwork, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no network calls, got %d", calls)
	}
}

func TestParseHexBig(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"0x0", "0", true},
		{"0x5", "5", true},
		{"0x0de0b6b3a7640000", "1000000000000000000", true},
		{"0x", "0", true},
		{"0xzz", "", false},
	}

	for _, tt := range tests {
		got, err := parseHexBig(tt.in)
		if tt.ok && err != nil {
			t.Errorf("parseHexBig(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("parseHexBig(%q) expected error", tt.in)
			}
			continue
		}
		if got.String() != tt.want {
			t.Errorf("parseHexBig(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

package store_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/keyterm"
	"github.com/fwojciec/keyterm/fs"
	"github.com/fwojciec/keyterm/jsoniter"
	"github.com/fwojciec/keyterm/mock"
	"github.com/fwojciec/keyterm/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*store.KeytermService, string) {
	t.Helper()
	base := t.TempDir()
	return store.NewKeytermService(fs.NewTree(base), jsoniter.NewCodec()), base
}

func sampleKeyterm() *keyterm.Keyterm {
	return &keyterm.Keyterm{
		Term:                "love",
		TermForms:           []string{"love", "loved"},
		AlternateRenderings: []string{"deep care"},
		Explanation:         "Deep care and concern for someone.",
		Relevancy:           "Central to the story.",
		RelatedTerms:        []string{"mercy"},
		Recordings: []keyterm.Recording{
			{Text: "upendo", Backtranslation: "love", Audio: keyterm.MustParseLocator("file:///rec/1.m4a")},
		},
		Audio: keyterm.MustParseLocator("content://org.sil.storyproducer/keyterms/love.m4a"),
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// Story: Keyterm Round Trip
// A saved keyterm reads back equal in every field.

func TestKeytermService_RoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("find after save yields equal keyterm", func(t *testing.T) {
		t.Parallel()

		// Given a service over an empty tree
		svc, _ := newService(t)
		ctx := context.Background()
		want := sampleKeyterm()

		// When I save and then find by term
		require.NoError(t, svc.SaveKeyterm(ctx, want))
		got, err := svc.FindKeyterm(ctx, want.Term)

		// Then every field survives, locators included
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("round trips terms with spaces and dots", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		ctx := context.Background()

		for _, term := range []string{"Holy Spirit", "St. John", "ἀγάπη"} {
			want := &keyterm.Keyterm{Term: term, Explanation: "x"}
			require.NoError(t, svc.SaveKeyterm(ctx, want))

			got, err := svc.FindKeyterm(ctx, term)
			require.NoError(t, err)
			assert.Equal(t, want, got, term)
		}
	})
}

func TestKeytermService_SaveKeyterm(t *testing.T) {
	t.Parallel()

	t.Run("writes canonical JSON to keyterms/<term>/<term>.json", func(t *testing.T) {
		t.Parallel()

		svc, base := newService(t)
		k := sampleKeyterm()

		require.NoError(t, svc.SaveKeyterm(context.Background(), k))

		content, err := os.ReadFile(filepath.Join(base, "keyterms", "love", "love.json"))
		require.NoError(t, err)
		want, err := jsoniter.NewCodec().EncodeKeyterm(k)
		require.NoError(t, err)
		assert.Equal(t, want, content)
	})

	t.Run("overwrite is idempotent", func(t *testing.T) {
		t.Parallel()

		svc, base := newService(t)
		ctx := context.Background()
		path := filepath.Join(base, "keyterms", "love", "love.json")

		require.NoError(t, svc.SaveKeyterm(ctx, sampleKeyterm()))
		once, err := os.ReadFile(path)
		require.NoError(t, err)

		require.NoError(t, svc.SaveKeyterm(ctx, sampleKeyterm()))
		twice, err := os.ReadFile(path)
		require.NoError(t, err)

		assert.Equal(t, once, twice)
	})

	t.Run("last writer wins", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		ctx := context.Background()

		require.NoError(t, svc.SaveKeyterm(ctx, &keyterm.Keyterm{Term: "love", Explanation: "first"}))
		require.NoError(t, svc.SaveKeyterm(ctx, &keyterm.Keyterm{Term: "love", Explanation: "second"}))

		got, err := svc.FindKeyterm(ctx, "love")
		require.NoError(t, err)
		assert.Equal(t, "second", got.Explanation)
	})

	t.Run("requests term file with empty sub path", func(t *testing.T) {
		t.Parallel()

		w := &mock.WriteCloser{}
		var filename, subPath, term string
		tree := &mock.DocumentTree{
			OpenChildFn: func(_ context.Context, f, s, tm string) (io.WriteCloser, bool) {
				filename, subPath, term = f, s, tm
				return w, true
			},
		}
		svc := store.NewKeytermService(tree, jsoniter.NewCodec())

		require.NoError(t, svc.SaveKeyterm(context.Background(), &keyterm.Keyterm{Term: "love"}))

		assert.Equal(t, "love.json", filename)
		assert.Empty(t, subPath)
		assert.Equal(t, "love", term)
		assert.JSONEq(t, `{"term":"love"}`, w.String())
		assert.True(t, w.Closed, "stream should be released")
	})

	t.Run("silently skips write when no stream is available", func(t *testing.T) {
		t.Parallel()

		tree := &mock.DocumentTree{
			OpenChildFn: func(context.Context, string, string, string) (io.WriteCloser, bool) {
				return nil, false
			},
		}
		svc := store.NewKeytermService(tree, jsoniter.NewCodec())

		err := svc.SaveKeyterm(context.Background(), sampleKeyterm())

		require.NoError(t, err)
	})

	t.Run("silently skips write when tree is unwritable", func(t *testing.T) {
		t.Parallel()

		base := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(base, []byte("x"), 0644))
		svc := store.NewKeytermService(fs.NewTree(base), jsoniter.NewCodec())

		err := svc.SaveKeyterm(context.Background(), sampleKeyterm())

		require.NoError(t, err)
	})

	t.Run("returns write failure and still releases stream", func(t *testing.T) {
		t.Parallel()

		w := &mock.WriteCloser{WriteErr: errors.New("disk full")}
		tree := &mock.DocumentTree{
			OpenChildFn: func(context.Context, string, string, string) (io.WriteCloser, bool) {
				return w, true
			},
		}
		svc := store.NewKeytermService(tree, jsoniter.NewCodec())

		err := svc.SaveKeyterm(context.Background(), sampleKeyterm())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.True(t, w.Closed)
	})

	t.Run("returns close failure", func(t *testing.T) {
		t.Parallel()

		w := &mock.WriteCloser{CloseErr: errors.New("rename failed")}
		tree := &mock.DocumentTree{
			OpenChildFn: func(context.Context, string, string, string) (io.WriteCloser, bool) {
				return w, true
			},
		}
		svc := store.NewKeytermService(tree, jsoniter.NewCodec())

		err := svc.SaveKeyterm(context.Background(), sampleKeyterm())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rename failed")
	})

	t.Run("rejects invalid term without touching tree", func(t *testing.T) {
		t.Parallel()

		tree := &mock.DocumentTree{
			OpenChildFn: func(context.Context, string, string, string) (io.WriteCloser, bool) {
				t.Fatal("tree should not be called")
				return nil, false
			},
		}
		svc := store.NewKeytermService(tree, jsoniter.NewCodec())

		for _, term := range []string{"", "a/b", ".."} {
			err := svc.SaveKeyterm(context.Background(), &keyterm.Keyterm{Term: term})
			require.Error(t, err)
			assert.Equal(t, keyterm.EINVALID, keyterm.ErrorCode(err))
		}
	})

	t.Run("rejects term containing underscore", func(t *testing.T) {
		t.Parallel()

		// Given a term that a read would map to a different file name
		svc, base := newService(t)
		k := &keyterm.Keyterm{Term: "son_of_man"}

		// When it is saved
		err := svc.SaveKeyterm(context.Background(), k)

		// Then it is rejected and nothing is written
		require.Error(t, err)
		assert.Equal(t, keyterm.EINVALID, keyterm.ErrorCode(err))
		_, statErr := os.Stat(filepath.Join(base, "keyterms", "son_of_man"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("rejects nil keyterm", func(t *testing.T) {
		t.Parallel()

		svc := store.NewKeytermService(&mock.DocumentTree{}, jsoniter.NewCodec())

		err := svc.SaveKeyterm(context.Background(), nil)

		require.Error(t, err)
		assert.Equal(t, keyterm.EINVALID, keyterm.ErrorCode(err))
	})

	t.Run("returns encode failure without opening stream", func(t *testing.T) {
		t.Parallel()

		tree := &mock.DocumentTree{
			OpenChildFn: func(context.Context, string, string, string) (io.WriteCloser, bool) {
				t.Fatal("tree should not be called")
				return nil, false
			},
		}
		codec := &mock.Codec{
			EncodeKeytermFn: func(*keyterm.Keyterm) ([]byte, error) {
				return nil, errors.New("encode failed")
			},
		}
		svc := store.NewKeytermService(tree, codec)

		err := svc.SaveKeyterm(context.Background(), sampleKeyterm())

		require.EqualError(t, err, "encode failed")
	})
}

func TestKeytermService_FindKeyterm(t *testing.T) {
	t.Parallel()

	t.Run("derives file name from prefix before first underscore", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			dirName string
			want    string
		}{
			{dirName: "love_noun", want: "love_noun/love.json"},
			{dirName: "love", want: "love/love.json"},
			{dirName: "son_of_man", want: "son_of_man/son.json"},
		}

		for _, tt := range tests {
			var gotPath, gotRoot string
			tree := &mock.DocumentTree{
				ReadTextFn: func(_ context.Context, relPath, rootLabel string) (string, bool) {
					gotPath, gotRoot = relPath, rootLabel
					return "", false
				},
			}
			svc := store.NewKeytermService(tree, jsoniter.NewCodec())

			_, err := svc.FindKeyterm(context.Background(), tt.dirName)

			require.NoError(t, err)
			assert.Equal(t, tt.want, gotPath)
			assert.Equal(t, "keyterms", gotRoot)
		}
	})

	t.Run("reads variant directory", func(t *testing.T) {
		t.Parallel()

		svc, base := newService(t)
		writeFile(t, filepath.Join(base, "keyterms", "love_noun", "love.json"), `{"term":"love","explanation":"noun sense"}`)
		writeFile(t, filepath.Join(base, "keyterms", "love_noun", "love_noun.json"), `{"term":"wrong"}`)

		got, err := svc.FindKeyterm(context.Background(), "love_noun")

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "noun sense", got.Explanation)
	})

	t.Run("returns nil without error for missing directory", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)

		got, err := svc.FindKeyterm(context.Background(), "nonexistent")

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("does not read outside the keyterms root", func(t *testing.T) {
		t.Parallel()

		// Given a keyterm file beside the keyterms root
		svc, base := newService(t)
		writeFile(t, filepath.Join(base, "secret.json"), `{"term":"secret"}`)
		writeFile(t, filepath.Join(base, "keyterms", "love", "love.json"), `{"term":"love"}`)

		// When directory names try to leave their own directory
		for _, dirName := range []string{"../secret", "..", ".", "", "love/../../secret"} {
			got, err := svc.FindKeyterm(context.Background(), dirName)

			// Then they are treated as absent
			require.NoError(t, err, dirName)
			assert.Nil(t, got, dirName)
		}
	})

	t.Run("returns nil when directory lacks stem file", func(t *testing.T) {
		t.Parallel()

		svc, base := newService(t)
		writeFile(t, filepath.Join(base, "keyterms", "love_noun", "love_noun.json"), `{"term":"love"}`)

		got, err := svc.FindKeyterm(context.Background(), "love_noun")

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("fails loudly on malformed content", func(t *testing.T) {
		t.Parallel()

		svc, base := newService(t)
		writeFile(t, filepath.Join(base, "keyterms", "love", "love.json"), "\x00\x01 not json")

		got, err := svc.FindKeyterm(context.Background(), "love")

		require.Error(t, err)
		assert.Nil(t, got)
		assert.Equal(t, keyterm.EINVALID, keyterm.ErrorCode(err))
	})

	t.Run("fails on schema mismatch", func(t *testing.T) {
		t.Parallel()

		svc, base := newService(t)
		writeFile(t, filepath.Join(base, "keyterms", "love", "love.json"), `{"term":"love","relatedTerms":{"a":1}}`)

		got, err := svc.FindKeyterm(context.Background(), "love")

		require.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestKeytermService_DetectKeyterm(t *testing.T) {
	t.Parallel()

	t.Run("ignores non-directory entries without touching tree", func(t *testing.T) {
		t.Parallel()

		tree := &mock.DocumentTree{
			ExistsFn: func(context.Context, string, string) bool {
				t.Fatal("Exists should not be called")
				return false
			},
			ReadTextFn: func(context.Context, string, string) (string, bool) {
				t.Fatal("ReadText should not be called")
				return "", false
			},
		}
		svc := store.NewKeytermService(tree, jsoniter.NewCodec())

		got, err := svc.DetectKeyterm(context.Background(), keyterm.Entry{Name: "x", IsDir: false})

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("does not read when directory is absent under keyterms", func(t *testing.T) {
		t.Parallel()

		var existsPath, existsRoot string
		tree := &mock.DocumentTree{
			ExistsFn: func(_ context.Context, relPath, rootLabel string) bool {
				existsPath, existsRoot = relPath, rootLabel
				return false
			},
			ReadTextFn: func(context.Context, string, string) (string, bool) {
				t.Fatal("ReadText should not be called")
				return "", false
			},
		}
		svc := store.NewKeytermService(tree, jsoniter.NewCodec())

		got, err := svc.DetectKeyterm(context.Background(), keyterm.Entry{Name: "love_noun", IsDir: true})

		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Equal(t, "love_noun", existsPath)
		assert.Equal(t, "keyterms", existsRoot)
	})

	t.Run("reads keyterm for existing directory", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		ctx := context.Background()
		require.NoError(t, svc.SaveKeyterm(ctx, sampleKeyterm()))

		got, err := svc.DetectKeyterm(ctx, keyterm.Entry{Name: "love", IsDir: true})

		require.NoError(t, err)
		assert.Equal(t, sampleKeyterm(), got)
	})

	t.Run("file sibling with same name is not a keyterm", func(t *testing.T) {
		t.Parallel()

		svc, base := newService(t)
		writeFile(t, filepath.Join(base, "keyterms", "x"), `{"term":"x"}`)

		got, err := svc.DetectKeyterm(context.Background(), keyterm.Entry{Name: "x", IsDir: false})

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("propagates decode failure", func(t *testing.T) {
		t.Parallel()

		svc, base := newService(t)
		writeFile(t, filepath.Join(base, "keyterms", "love", "love.json"), "{")

		got, err := svc.DetectKeyterm(context.Background(), keyterm.Entry{Name: "love", IsDir: true})

		require.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestKeytermService_ScanKeyterms(t *testing.T) {
	t.Parallel()

	t.Run("isolates corrupt entries", func(t *testing.T) {
		t.Parallel()

		// Given a tree with good, corrupt, and non-keyterm entries
		svc, base := newService(t)
		ctx := context.Background()
		require.NoError(t, svc.SaveKeyterm(ctx, &keyterm.Keyterm{Term: "grace"}))
		writeFile(t, filepath.Join(base, "keyterms", "love_noun", "love.json"), `{"term":"love"}`)
		writeFile(t, filepath.Join(base, "keyterms", "mercy", "mercy.json"), "not json")
		writeFile(t, filepath.Join(base, "keyterms", "notes.txt"), "ignored")
		require.NoError(t, os.MkdirAll(filepath.Join(base, "keyterms", "empty"), 0755))

		// When I scan
		results, err := svc.ScanKeyterms(ctx)

		// Then each keyterm directory is reported in name order
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "grace", results[0].Name)
		require.NoError(t, results[0].Err)
		assert.Equal(t, "grace", results[0].Keyterm.Term)

		assert.Equal(t, "love_noun", results[1].Name)
		require.NoError(t, results[1].Err)
		assert.Equal(t, "love", results[1].Keyterm.Term)

		// And the corrupt file is reported without aborting the scan
		assert.Equal(t, "mercy", results[2].Name)
		assert.Nil(t, results[2].Keyterm)
		assert.Equal(t, keyterm.EINVALID, keyterm.ErrorCode(results[2].Err))
	})

	t.Run("returns nothing for missing root", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)

		results, err := svc.ScanKeyterms(context.Background())

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("bounds concurrent lookups", func(t *testing.T) {
		t.Parallel()

		var inflight, peak atomic.Int32
		entries := make([]keyterm.Entry, 20)
		for i := range entries {
			entries[i] = keyterm.Entry{Name: string(rune('a' + i)), IsDir: true}
		}
		tree := &mock.DocumentTree{
			EntriesFn: func(context.Context, string) ([]keyterm.Entry, error) {
				return entries, nil
			},
			ExistsFn: func(context.Context, string, string) bool {
				n := inflight.Add(1)
				defer inflight.Add(-1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				return false
			},
		}
		svc := store.NewKeytermService(tree, jsoniter.NewCodec())
		svc.Concurrency = 3

		results, err := svc.ScanKeyterms(context.Background())

		require.NoError(t, err)
		assert.Empty(t, results)
		assert.LessOrEqual(t, peak.Load(), int32(3))
	})

	t.Run("returns listing failure", func(t *testing.T) {
		t.Parallel()

		tree := &mock.DocumentTree{
			EntriesFn: func(context.Context, string) ([]keyterm.Entry, error) {
				return nil, errors.New("permission denied")
			},
		}
		svc := store.NewKeytermService(tree, jsoniter.NewCodec())

		_, err := svc.ScanKeyterms(context.Background())

		require.EqualError(t, err, "permission denied")
	})
}

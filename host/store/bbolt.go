package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"go.etcd.io/bbolt"

	"tinyhal/host/console"
)

type BBolt struct {
	db *bbolt.DB
}

const (
	bboltSamplesBucket = "samples"
	bboltEventsBucket  = "events"
)

var _ Store = (*BBolt)(nil)

// OpenBBolt opens a BBoltDB database at the given path and creates the needed buckets
// if they don't exist.
func OpenBBolt(path string, mode os.FileMode, options *bbolt.Options) (*BBolt, error) {
	db, err := bbolt.Open(path, mode, options)
	if err != nil {
		return nil, fmt.Errorf("unable to open bbolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{bboltSamplesBucket, bboltEventsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("unable to create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to create bbolt buckets: %w", err)
	}

	return &BBolt{db: db}, nil
}

func (b *BBolt) Close() error {
	return b.db.Close()
}

// put appends v under the bucket's next sequence number, so keys sort in
// insertion order.
func (b *BBolt) put(bucket string, v interface{}) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket([]byte(bucket))
		seq, err := bkt.NextSequence()
		if err != nil {
			return fmt.Errorf("unable to allocate key: %w", err)
		}

		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("unable to marshal: %w", err)
		}

		var key [8]byte
		binary.BigEndian.PutUint64(key[:], seq)
		return bkt.Put(key[:], data)
	})
	if err != nil {
		return fmt.Errorf("unable to put into %q: %w", bucket, err)
	}
	return nil
}

func (b *BBolt) PutSample(s console.Sample) error {
	return b.put(bboltSamplesBucket, s)
}

func (b *BBolt) PutEvent(e console.Event) error {
	return b.put(bboltEventsBucket, e)
}

func (b *BBolt) Samples(limit int) ([]console.Sample, error) {
	samples := make([]console.Sample, 0)

	err := b.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(bboltSamplesBucket)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(samples) == limit {
				break
			}
			var s console.Sample
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("unable to unmarshal sample JSON: %w", err)
			}
			samples = append(samples, s)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list samples: %w", err)
	}

	for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
		samples[i], samples[j] = samples[j], samples[i]
	}
	return samples, nil
}

func (b *BBolt) LatestSample() (console.Sample, error) {
	var s console.Sample
	err := b.db.View(func(tx *bbolt.Tx) error {
		_, v := tx.Bucket([]byte(bboltSamplesBucket)).Cursor().Last()
		if v == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("unable to unmarshal sample JSON: %w", err)
		}
		return nil
	})
	if err != nil {
		return s, fmt.Errorf("unable to get latest sample: %w", err)
	}
	return s, nil
}

func (b *BBolt) Events() ([]console.Event, error) {
	events := make([]console.Event, 0)

	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bboltEventsBucket)).ForEach(func(_, v []byte) error {
			var e console.Event
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("unable to unmarshal event JSON: %w", err)
			}
			events = append(events, e)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list events: %w", err)
	}
	return events, nil
}

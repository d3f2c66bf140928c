package model

import (
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var recordKeyPrefix = []byte("record-")

// History keeps every deployment record in a local leveldb, keyed by
// the record id. Ids are time ordered, so iteration returns records in
// creation order.
type History struct {
	db *leveldb.DB
}

func OpenHistory(path string) (self *History, err error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	self = &History{db: db}
	return
}

func (self *History) Put(record *DeploymentRecord) (err error) {
	content, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize deployment record: %w", err)
	}

	key := append(append([]byte{}, recordKeyPrefix...), []byte(record.Id)...)
	err = self.db.Put(key, content, nil)
	if err != nil {
		return fmt.Errorf("failed to store deployment record: %w", err)
	}
	return
}

func (self *History) List() (records []*DeploymentRecord, err error) {
	iter := self.db.NewIterator(util.BytesPrefix(recordKeyPrefix), nil)
	defer iter.Release()

	for iter.Next() {
		record := new(DeploymentRecord)
		err = json.Unmarshal(iter.Value(), record)
		if err != nil {
			return nil, fmt.Errorf("failed to parse deployment record %s: %w", iter.Key(), err)
		}
		records = append(records, record)
	}

	err = iter.Error()
	if err != nil {
		return nil, fmt.Errorf("history iteration failed: %w", err)
	}
	return
}

func (self *History) Close() error {
	return self.db.Close()
}

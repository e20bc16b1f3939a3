package store

import "gorm.io/gorm"

// asOf narrows a query to rows live at blockNum: startBlockNum <= b <
// endBlockNum. Passing CurrentBlockNum() gives "live right now".
func asOf(db *gorm.DB, blockNum uint64) *gorm.DB {
	return db.Where("start_block_num <= ? AND end_block_num > ?", blockNum, blockNum)
}

func (s *Store) AgentAsOf(publicKey string, blockNum uint64) (AgentRow, bool, error) {
	var row AgentRow
	err := asOf(s.DB, blockNum).Where("public_key = ?", publicKey).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return AgentRow{}, false, nil
	}
	return row, err == nil, err
}

func (s *Store) RecordTypeAsOf(name string, blockNum uint64) (RecordTypeRow, bool, error) {
	var row RecordTypeRow
	err := asOf(s.DB, blockNum).Where("name = ?", name).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return RecordTypeRow{}, false, nil
	}
	return row, err == nil, err
}

func (s *Store) RecordAsOf(recordID string, blockNum uint64) (RecordRow, bool, error) {
	var row RecordRow
	err := asOf(s.DB, blockNum).Where("record_id = ?", recordID).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return RecordRow{}, false, nil
	}
	return row, err == nil, err
}

func (s *Store) PropertyAsOf(recordID, name string, blockNum uint64) (PropertyRow, bool, error) {
	var row PropertyRow
	err := asOf(s.DB, blockNum).Where("record_id = ? AND name = ?", recordID, name).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return PropertyRow{}, false, nil
	}
	return row, err == nil, err
}

func (s *Store) PropertyPageAsOf(recordID, name string, pageNum uint32, blockNum uint64) (PropertyPageRow, bool, error) {
	var row PropertyPageRow
	err := asOf(s.DB, blockNum).Where("record_id = ? AND name = ? AND page_num = ?", recordID, name, pageNum).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return PropertyPageRow{}, false, nil
	}
	return row, err == nil, err
}

func (s *Store) ProposalsAsOf(recordID, receivingAgent string, blockNum uint64) ([]ProposalRow, error) {
	var rows []ProposalRow
	err := asOf(s.DB, blockNum).
		Where("record_id = ? AND receiving_agent = ?", recordID, receivingAgent).
		Order("timestamp ASC").
		Find(&rows).Error
	return rows, err
}

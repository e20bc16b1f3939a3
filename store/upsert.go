package store

import "gorm.io/gorm"

// Store is the gorm-backed handle every C6 write and read path shares.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

// InsertBlock records a committed block descriptor. A blockNum that is
// already recorded is left as it is and nil is returned (idempotent
// replay).
func (s *Store) InsertBlock(blockNum uint64, blockID, stateRootHash string) error {
	var existing Block
	err := s.DB.Where("block_num = ?", blockNum).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return s.DB.Create(&Block{BlockNum: blockNum, BlockID: blockID, StateRootHash: stateRootHash}).Error
}

// CurrentBlockNum returns the max blockNum seen, or 0 if no blocks have
// been recorded yet.
func (s *Store) CurrentBlockNum() (uint64, error) {
	var b Block
	err := s.DB.Order("block_num DESC").First(&b).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return b.BlockNum, nil
}

func (s *Store) UpsertAgent(row AgentRow, blockNum uint64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var live []AgentRow
		if err := tx.Where("public_key = ? AND end_block_num = ?", row.PublicKey, MaxBlockNum).Find(&live).Error; err != nil {
			return err
		}
		for _, l := range live {
			if l.StartBlockNum == blockNum {
				return nil
			}
		}
		if len(live) > 0 {
			ids := make([]uint, len(live))
			for i, l := range live {
				ids[i] = l.ID
			}
			if err := tx.Model(&AgentRow{}).Where("id IN ?", ids).Update("end_block_num", blockNum).Error; err != nil {
				return err
			}
		}
		row.StartBlockNum = blockNum
		row.EndBlockNum = MaxBlockNum
		return tx.Create(&row).Error
	})
}

func (s *Store) UpsertRecordType(row RecordTypeRow, blockNum uint64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var live []RecordTypeRow
		if err := tx.Where("name = ? AND end_block_num = ?", row.Name, MaxBlockNum).Find(&live).Error; err != nil {
			return err
		}
		for _, l := range live {
			if l.StartBlockNum == blockNum {
				return nil
			}
		}
		if len(live) > 0 {
			ids := make([]uint, len(live))
			for i, l := range live {
				ids[i] = l.ID
			}
			if err := tx.Model(&RecordTypeRow{}).Where("id IN ?", ids).Update("end_block_num", blockNum).Error; err != nil {
				return err
			}
		}
		row.StartBlockNum = blockNum
		row.EndBlockNum = MaxBlockNum
		return tx.Create(&row).Error
	})
}

func (s *Store) UpsertRecord(row RecordRow, blockNum uint64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var live []RecordRow
		if err := tx.Where("record_id = ? AND end_block_num = ?", row.RecordID, MaxBlockNum).Find(&live).Error; err != nil {
			return err
		}
		for _, l := range live {
			if l.StartBlockNum == blockNum {
				return nil
			}
		}
		if len(live) > 0 {
			ids := make([]uint, len(live))
			for i, l := range live {
				ids[i] = l.ID
			}
			if err := tx.Model(&RecordRow{}).Where("id IN ?", ids).Update("end_block_num", blockNum).Error; err != nil {
				return err
			}
		}
		row.StartBlockNum = blockNum
		row.EndBlockNum = MaxBlockNum
		return tx.Create(&row).Error
	})
}

func (s *Store) UpsertProperty(row PropertyRow, blockNum uint64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var live []PropertyRow
		if err := tx.Where("name = ? AND record_id = ? AND end_block_num = ?", row.Name, row.RecordID, MaxBlockNum).Find(&live).Error; err != nil {
			return err
		}
		for _, l := range live {
			if l.StartBlockNum == blockNum {
				return nil
			}
		}
		if len(live) > 0 {
			ids := make([]uint, len(live))
			for i, l := range live {
				ids[i] = l.ID
			}
			if err := tx.Model(&PropertyRow{}).Where("id IN ?", ids).Update("end_block_num", blockNum).Error; err != nil {
				return err
			}
		}
		row.StartBlockNum = blockNum
		row.EndBlockNum = MaxBlockNum
		return tx.Create(&row).Error
	})
}

func (s *Store) UpsertPropertyPage(row PropertyPageRow, blockNum uint64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var live []PropertyPageRow
		if err := tx.Where("name = ? AND record_id = ? AND page_num = ? AND end_block_num = ?", row.Name, row.RecordID, row.PageNum, MaxBlockNum).Find(&live).Error; err != nil {
			return err
		}
		for _, l := range live {
			if l.StartBlockNum == blockNum {
				return nil
			}
		}
		if len(live) > 0 {
			ids := make([]uint, len(live))
			for i, l := range live {
				ids[i] = l.ID
			}
			if err := tx.Model(&PropertyPageRow{}).Where("id IN ?", ids).Update("end_block_num", blockNum).Error; err != nil {
				return err
			}
		}
		row.StartBlockNum = blockNum
		row.EndBlockNum = MaxBlockNum
		return tx.Create(&row).Error
	})
}

func (s *Store) UpsertProposal(row ProposalRow, blockNum uint64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var live []ProposalRow
		if err := tx.Where("record_id = ? AND timestamp = ? AND receiving_agent = ? AND role = ? AND end_block_num = ?",
			row.RecordID, row.Timestamp, row.ReceivingAgent, row.Role, MaxBlockNum).Find(&live).Error; err != nil {
			return err
		}
		for _, l := range live {
			if l.StartBlockNum == blockNum {
				return nil
			}
		}
		if len(live) > 0 {
			ids := make([]uint, len(live))
			for i, l := range live {
				ids[i] = l.ID
			}
			if err := tx.Model(&ProposalRow{}).Where("id IN ?", ids).Update("end_block_num", blockNum).Error; err != nil {
				return err
			}
		}
		row.StartBlockNum = blockNum
		row.EndBlockNum = MaxBlockNum
		return tx.Create(&row).Error
	})
}

package certificate

import "deduction-ocr/api/internal/ocr"

// Build maps extraction records into the document for kind. One entry is
// produced per record. An unrecognized kind yields Default(certType).
func Build(kind Kind, page int, certType string, records []ocr.Record) Document {
	doc := newDocument(page, certType)
	switch kind {
	case KindLife:
		for _, rec := range records {
			doc.Lifes = append(doc.Lifes, lifeEntry(fieldReader{rec: rec, page: page}))
		}
	case KindEarthquake:
		for _, rec := range records {
			doc.Earthquakes = append(doc.Earthquakes, earthquakeEntry(fieldReader{rec: rec, page: page}))
		}
	case KindSocial:
		for _, rec := range records {
			doc.Socials = append(doc.Socials, socialEntry(fieldReader{rec: rec, page: page}))
		}
	case KindSmallMutualAid:
		for _, rec := range records {
			doc.SmallMutuals = append(doc.SmallMutuals, smallMutualEntry(fieldReader{rec: rec, page: page}))
		}
	default:
		return Default(certType)
	}
	return doc
}

func lifeEntry(r fieldReader) LifeEntry {
	return LifeEntry{
		InsuranceClass:       r.text("保険区分"),
		InsuranceCompanyName: r.field("保険会社名"),
		ContractNumber:       r.field("契約番号"),
		InsuranceType:        r.field("保険種類"),
		ContractDate:         r.field("契約日"),
		InsurancePeriod:      r.field("保険期間"),
		InsuranceContractor:  r.field("保険契約者名"),
		InsuranceRecipient:   r.field("保険受取人名"),
		IsNewType:            r.field("新・旧制度区分"),
		GeneralAmount:        r.amount("証明額"),
		PensionPaymentDate:   r.field("年金支払開始日"),
	}
}

func earthquakeEntry(r fieldReader) EarthquakeEntry {
	return EarthquakeEntry{
		InsuranceCompanyName:    r.field("保険会社名"),
		ContractNumber:          r.field("契約番号"),
		InsuranceType:           r.field("保険種類"),
		ContractStartDate:       r.field("契約開始日"),
		ContractEndDate:         r.field("契約終了日"),
		InsurancePeriod:         r.field("保険期間"),
		InsuranceContractor:     r.field("保険契約者名"),
		InsuranceProperty:       r.field("保険対象物件"),
		DeductionAmount:         r.amount("地震控除証明額"),
		OldDeductionAmount:      r.amount("旧長期控除証明額"),
		MaturityRefundAvailable: r.field("満期返戻金有無"),
	}
}

func socialEntry(r fieldReader) SocialEntry {
	return SocialEntry{
		InsuranceType: r.field("保険種類"),
		PaymentName:   r.field("保険料支払先名称"),
		PayerName:     r.field("保険料負担者氏名"),
		Payment:       r.amount("保険料支払額"),
	}
}

func smallMutualEntry(r fieldReader) SmallMutualEntry {
	return SmallMutualEntry{
		PremiumType:   r.text("掛金の種類"),
		PremiumAmount: r.amount("掛金"),
	}
}

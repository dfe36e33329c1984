package risk

// Built-in scoring domains.
const (
	DomainKurgan = "kurgan"
	DomainSMIYB  = "smiyb"
	DomainRadar  = "radar"
)

var threeBands = []LevelBand{
	{Level: LevelLow, Min: 0},
	{Level: LevelMedium, Min: 30},
	{Level: LevelHigh, Min: 60},
}

// KurganTable is the KURGAN (Kuruluş Gözetimli Analiz) checklist for fake-invoice
// exposure through suppliers.
func KurganTable() WeightTable {
	return WeightTable{
		Domain:    DomainKurgan,
		Version:   "kurgan-2024.1",
		Reduction: ReduceQuarter,
		Levels:    append([]LevelBand(nil), threeBands...),
		Entries: []Entry{
			{Signal: "supplier_vtr_listed", Weight: 20, Polarity: IncreasesRisk,
				Description: "Tedarikçi hakkında vergi tekniği raporu (VTR) bulunuyor",
				Suggestion:  "Tedarikçiden alınan faturaları, sevk irsaliyelerini ve ödeme dekontlarını dosyalayın"},
			{Signal: "supplier_recently_registered", Weight: 6, Polarity: IncreasesRisk,
				Description: "Tedarikçi son 12 ay içinde mükellefiyet açmış",
				Suggestion:  "Tedarikçinin faaliyet adresini ve ticaret sicil kaydını doğrulayın"},
			{Signal: "supplier_no_declared_employees", Weight: 6, Polarity: IncreasesRisk,
				Description: "Tedarikçinin SGK'ya bildirilmiş çalışanı yok",
				Suggestion:  "Tedarikçinin mal veya hizmeti üretme kapasitesini belgeleyin"},
			{Signal: "supplier_sector_mismatch", Weight: 5, Polarity: IncreasesRisk,
				Description: "Tedarikçinin NACE faaliyet kodu satın alınan mal ile uyumsuz",
				Suggestion:  "Alımın işletme faaliyetiyle ilişkisini açıklayan yazışmaları saklayın"},
			{Signal: "invoice_amount_outlier", Weight: 6, Polarity: IncreasesRisk,
				Description: "Fatura tutarı tedarikçinin olağan işlem hacminin çok üzerinde",
				Suggestion:  "Fiyatlamanın piyasa değerine uygunluğunu gösteren teklifleri ekleyin"},
			{Signal: "cash_payment_above_limit", Weight: 8, Polarity: IncreasesRisk,
				Description: "Tahsilat ve ödeme belgesi sınırını aşan nakit ödeme yapılmış",
				Suggestion:  "Sınırı aşan ödemeleri banka veya PTT aracılığıyla yapın (VUK 257 genel tebliğ)"},
			{Signal: "payment_not_via_bank", Weight: 7, Polarity: IncreasesRisk,
				Description: "Fatura bedeli banka kanalıyla ödenmemiş",
				Suggestion:  "Ödemenin yapıldığını gösteren belgeleri temin edin"},
			{Signal: "ba_bs_mismatch", Weight: 8, Polarity: IncreasesRisk,
				Description: "Ba/Bs formları karşı tarafın bildirimiyle uyuşmuyor",
				Suggestion:  "Ba/Bs bildirimlerini karşı tarafla mutabakat yaparak düzeltin"},
			{Signal: "vat_declaration_mismatch", Weight: 10, Polarity: IncreasesRisk,
				Description: "KDV beyannamesi mizan ile uyuşmuyor",
				Suggestion:  "391 ve 191 hesaplarını beyanname ile karşılaştırıp farkı açıklayın"},
			{Signal: "e_invoice_cancelled_after_period", Weight: 5, Polarity: IncreasesRisk,
				Description: "Dönem kapandıktan sonra iptal edilen e-fatura var",
				Suggestion:  "İptal gerekçesini ve karşı tarafın onayını belgeleyin"},
			{Signal: "cash_reversed_balance", Weight: 8, Polarity: IncreasesRisk,
				Description: "100 Kasa hesabı alacak bakiyesi veriyor",
				Suggestion:  "Kasa hareketlerini gün bazında kontrol edip kayıt dışı ödemeleri düzeltin"},
			{Signal: "negative_inventory", Weight: 8, Polarity: IncreasesRisk,
				Description: "Stok hesapları eksi bakiye veriyor",
				Suggestion:  "Stok sayımı yaparak alış ve satış faturalarını mutabakat edin"},
			{Signal: "trial_balance_unequal", Weight: 3, Polarity: IncreasesRisk,
				Description: "Mizan borç ve alacak toplamları eşit değil",
				Suggestion:  "Yevmiye kayıtlarını kontrol ederek mizanı dengeleyin"},
		},
	}
}

// SMIYBTable is the SMİYB (sahte veya muhteviyatı itibariyle yanıltıcı belge)
// checklist. Mitigating signals only explain, they never lower the score.
func SMIYBTable() WeightTable {
	return WeightTable{
		Domain:    DomainSMIYB,
		Version:   "smiyb-2024.1",
		Reduction: ReduceExplain,
		Levels:    append([]LevelBand(nil), threeBands...),
		Entries: []Entry{
			{Signal: "supplier_vtr_listed", Weight: 25, Polarity: IncreasesRisk,
				Description: "Tedarikçi hakkında sahte belge düzenleme yönünden VTR bulunuyor",
				Suggestion:  "İşlemin gerçekliğini ispatlayan tüm belgeleri (sözleşme, irsaliye, dekont) hazırlayın",
				Mitigation:  "Tedarikçi sorgusunu dönem sonunda tekrarlayın"},
			{Signal: "invoice_without_delivery_docs", Weight: 12, Polarity: IncreasesRisk,
				Description: "Faturaya ait sevk irsaliyesi veya taşıma belgesi yok",
				Suggestion:  "İrsaliye, kantar fişi veya nakliye belgelerini temin edin"},
			{Signal: "goods_not_in_inventory_flow", Weight: 12, Polarity: IncreasesRisk,
				Description: "Faturalanan mal stok giriş-çıkış kayıtlarında görünmüyor",
				Suggestion:  "Malın stok kartlarına girişini ve kullanımını gösterin"},
			{Signal: "negative_inventory", Weight: 10, Polarity: IncreasesRisk,
				Description: "Stok hesapları eksi bakiye veriyor",
				Suggestion:  "Stok sayımı yaparak alış kayıtlarını kontrol edin"},
			{Signal: "vat_declaration_mismatch", Weight: 10, Polarity: IncreasesRisk,
				Description: "İndirilen KDV beyanname ile mizan arasında fark var",
				Suggestion:  "191 hesabını beyannameyle karşılaştırıp farkı açıklayın"},
			{Signal: "payment_not_via_bank", Weight: 10, Polarity: IncreasesRisk,
				Description: "Ödeme banka kanalıyla yapılmamış",
				Suggestion:  "Ödemenin gerçekleştiğini gösteren belgeleri temin edin",
				Mitigation:  "Banka dekontlarını fatura ile eşleştirerek saklayın"},
			{Signal: "supplier_no_declared_employees", Weight: 7, Polarity: IncreasesRisk,
				Description: "Tedarikçinin SGK'ya bildirilmiş çalışanı yok",
				Suggestion:  "Tedarikçinin faaliyet kapasitesini belgeleyin"},
			{Signal: "ba_bs_mismatch", Weight: 8, Polarity: IncreasesRisk,
				Description: "Ba/Bs bildirimleri karşı tarafla uyuşmuyor",
				Suggestion:  "Karşı tarafla form mutabakatı yapın"},
			{Signal: "supplier_address_unreachable", Weight: 6, Polarity: IncreasesRisk,
				Description: "Tedarikçi bildirilen adreste bulunamadı",
				Suggestion:  "Tedarikçinin güncel adresini ve yoklama sonuçlarını kontrol edin"},
		},
	}
}

// RadarTable is the RADAR checklist built from ledger and declaration consistency.
func RadarTable() WeightTable {
	return WeightTable{
		Domain:    DomainRadar,
		Version:   "radar-2024.1",
		Reduction: ReduceQuarter,
		Levels: []LevelBand{
			{Level: LevelLow, Min: 0},
			{Level: LevelMedium, Min: 25},
			{Level: LevelHigh, Min: 50},
			{Level: LevelCritical, Min: 75},
		},
		Entries: []Entry{
			{Signal: "trial_balance_unequal", Weight: 10, Polarity: IncreasesRisk,
				Description: "Mizan borç ve alacak toplamları eşit değil",
				Suggestion:  "Yevmiye kayıtlarını kontrol ederek mizanı dengeleyin"},
			{Signal: "reversed_balances", Weight: 8, Polarity: IncreasesRisk,
				Description: "Bir veya daha fazla hesap ters bakiye veriyor",
				Suggestion:  "Ters bakiye veren hesapların hareketlerini inceleyip düzeltme kaydı yapın"},
			{Signal: "cash_reversed_balance", Weight: 8, Polarity: IncreasesRisk,
				Description: "100 Kasa hesabı alacak bakiyesi veriyor",
				Suggestion:  "Kasa hesabını gün bazında kontrol edin"},
			{Signal: "high_cash_balance", Weight: 8, Polarity: IncreasesRisk,
				Description: "Kasa bakiyesi işletme ölçeğine göre yüksek",
				Suggestion:  "Fiili kasa sayımı yapın; ortaklara verilen borçlar varsa 131 hesaba aktarın"},
			{Signal: "negative_inventory", Weight: 10, Polarity: IncreasesRisk,
				Description: "Stok hesapları eksi bakiye veriyor",
				Suggestion:  "Stok sayımı yaparak kayıtları düzeltin"},
			{Signal: "bank_balance_mismatch", Weight: 12, Polarity: IncreasesRisk,
				Description: "102 Bankalar hesabı banka ekstresi ile uyuşmuyor",
				Suggestion:  "Banka mutabakatı yaparak kaydedilmemiş hareketleri işleyin"},
			{Signal: "vat_declaration_mismatch", Weight: 12, Polarity: IncreasesRisk,
				Description: "KDV beyannamesi mizan ile uyuşmuyor",
				Suggestion:  "391 ve 191 hesaplarını beyannameyle karşılaştırın"},
			{Signal: "withholding_mismatch", Weight: 10, Polarity: IncreasesRisk,
				Description: "Muhtasar beyanname 360 hesabı ile uyuşmuyor",
				Suggestion:  "Stopaj kesintilerini bordro ve serbest meslek makbuzlarıyla karşılaştırın"},
			{Signal: "revenue_trend_anomaly", Weight: 10, Polarity: IncreasesRisk,
				Description: "Satış hasılatı önceki döneme göre olağan dışı değişmiş",
				Suggestion:  "Hasılat değişiminin ticari gerekçesini belgeleyin"},
			{Signal: "partner_receivable_balance", Weight: 12, Polarity: IncreasesRisk,
				Description: "131 Ortaklardan Alacaklar hesabında bakiye var",
				Suggestion:  "Ortak cari hesabı için transfer fiyatlandırması faizi hesaplayın (KVK md. 13)"},
		},
	}
}

// BuiltinTables returns fresh copies of every built-in table.
func BuiltinTables() []WeightTable {
	return []WeightTable{KurganTable(), SMIYBTable(), RadarTable()}
}

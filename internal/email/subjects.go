package email

const (
	subjectLeadAlertFmt      = "Nouvelle demande B2B de %s"
	subjectFollowUpFmt       = "Relance à faire : %s"
	subjectQuoteCreatedFmt   = "Devis %s émis"
	subjectMissionCreatedFmt = "Mission %s créée"
)

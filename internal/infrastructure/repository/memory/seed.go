package memory

import (
	"github.com/riskibarqy/fpl-hub/internal/domain/player"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

type seedClub struct {
	id   string
	name string
}

var (
	clubArsenal   = seedClub{id: "ARS", name: "Arsenal"}
	clubLiverpool = seedClub{id: "LIV", name: "Liverpool"}
	clubManCity   = seedClub{id: "MCI", name: "Manchester City"}
	clubChelsea   = seedClub{id: "CHE", name: "Chelsea"}
	clubSpurs     = seedClub{id: "TOT", name: "Tottenham Hotspur"}
	clubNewcastle = seedClub{id: "NEW", name: "Newcastle United"}
)

func seedPlayer(n int64, club seedClub, name string, pos player.Position, price int64) player.Player {
	return player.Player{
		ID:       id.FromInt(n),
		ClubID:   club.id,
		ClubName: club.name,
		Name:     name,
		Position: pos,
		Price:    price,
	}
}

// SeedPlayers is the catalog used when no upstream source is configured.
func SeedPlayers() []player.Player {
	return []player.Player{
		seedPlayer(1, clubArsenal, "David Raya", player.PositionGoalkeeper, 55),
		seedPlayer(2, clubLiverpool, "Alisson", player.PositionGoalkeeper, 55),
		seedPlayer(3, clubManCity, "Ederson", player.PositionGoalkeeper, 55),
		seedPlayer(4, clubChelsea, "Robert Sanchez", player.PositionGoalkeeper, 45),
		seedPlayer(5, clubArsenal, "William Saliba", player.PositionDefender, 60),
		seedPlayer(6, clubArsenal, "Gabriel", player.PositionDefender, 60),
		seedPlayer(7, clubLiverpool, "Virgil van Dijk", player.PositionDefender, 60),
		seedPlayer(8, clubLiverpool, "Andrew Robertson", player.PositionDefender, 55),
		seedPlayer(9, clubManCity, "Josko Gvardiol", player.PositionDefender, 60),
		seedPlayer(10, clubChelsea, "Levi Colwill", player.PositionDefender, 45),
		seedPlayer(11, clubSpurs, "Cristian Romero", player.PositionDefender, 50),
		seedPlayer(12, clubNewcastle, "Kieran Trippier", player.PositionDefender, 50),
		seedPlayer(13, clubArsenal, "Bukayo Saka", player.PositionMidfielder, 90),
		seedPlayer(14, clubLiverpool, "Mohamed Salah", player.PositionMidfielder, 125),
		seedPlayer(15, clubManCity, "Phil Foden", player.PositionMidfielder, 80),
		seedPlayer(16, clubChelsea, "Cole Palmer", player.PositionMidfielder, 95),
		seedPlayer(17, clubSpurs, "James Maddison", player.PositionMidfielder, 65),
		seedPlayer(18, clubNewcastle, "Anthony Gordon", player.PositionMidfielder, 65),
		seedPlayer(19, clubSpurs, "Son Heung-min", player.PositionMidfielder, 85),
		seedPlayer(20, clubManCity, "Erling Haaland", player.PositionForward, 140),
		seedPlayer(21, clubNewcastle, "Alexander Isak", player.PositionForward, 80),
		seedPlayer(22, clubChelsea, "Nicolas Jackson", player.PositionForward, 70),
		seedPlayer(23, clubSpurs, "Dominic Solanke", player.PositionForward, 65),
		seedPlayer(24, clubArsenal, "Kai Havertz", player.PositionForward, 70),
	}
}
